package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/moodsync-server/internal/auth"
	"github.com/vovakirdan/moodsync-server/internal/config"
	"github.com/vovakirdan/moodsync-server/internal/core"
	"github.com/vovakirdan/moodsync-server/internal/genai"
	"github.com/vovakirdan/moodsync-server/internal/metrics"
	"github.com/vovakirdan/moodsync-server/internal/service/companion"
	"github.com/vovakirdan/moodsync-server/internal/service/mood"
	"github.com/vovakirdan/moodsync-server/internal/store"
	"github.com/vovakirdan/moodsync-server/internal/store/memory"
	"github.com/vovakirdan/moodsync-server/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/moodsync-server/internal/transport/http"
)

// Version is reported by / and /health and by the version command.
var Version = "2.0.1"

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	st, err := openStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("driver", st.Kind()).Str("path", cfg.Storage.Path).Msg("storage initialized")

	if cfg.JWT.Secret == config.DefaultJWTSecret && !cfg.IsDevelopment() {
		logger.Warn().Msg("jwt.secret is the default placeholder, set a real secret")
	}
	authService := auth.NewService(st, &auth.JWTConfig{
		Secret:   []byte(cfg.JWT.Secret),
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	gemini := genai.NewGeminiClient(genai.GeminiConfig{
		APIKey:  cfg.GenAI.APIKey,
		Model:   cfg.GenAI.Model,
		BaseURL: cfg.GenAI.BaseURL,
		Timeout: cfg.GenAI.Timeout,
	})
	if !gemini.Configured() {
		logger.Warn().Msg("no genai api key configured, persona endpoints will use fallback replies")
	}
	breakerCfg := genai.DefaultBreakerConfig()
	var (
		companionOpts []companion.Option
		hubOpts       []core.Option
	)
	if m != nil {
		breakerCfg.OnStateChange = m.BreakerStateChanged
		companionOpts = append(companionOpts, companion.WithObserver(m))
		hubOpts = append(hubOpts, core.WithObserver(m))
	}
	generator := genai.NewBreaker(gemini, breakerCfg, logger)

	hub := core.NewHub(logger, hubOpts...)
	if m != nil {
		m.TrackHub(hub.Stats)
	}

	server := transporthttp.NewServer(*cfg, transporthttp.Deps{
		Hub:       hub,
		Auth:      authService,
		Store:     st,
		Mood:      mood.NewService(st, st),
		Companion: companion.NewService(generator, logger, companionOpts...),
		Metrics:   m,
		Info: transporthttp.ServiceInfo{
			Version: Version,
			AIModel: gemini.Model(),
			AIState: generator.State,
			Started: time.Now(),
		},
	}, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		log:             logger,
	}, nil
}

func openStore(cfg config.StorageConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageSQLite:
		st, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Run starts the hub and the HTTP server and blocks until context
// cancellation or a fatal server error.
func (a *App) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		a.hub.Run(hubCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	var runErr error
	select {
	case err := <-serverErr:
		runErr = err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		// The hub goes first: closing client streams ends the websocket handlers.
		a.log.Info().Msg("stopping realtime hub")
		stopHub()
		<-hubDone

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			runErr = err
		} else {
			runErr = <-serverErr
		}
	}

	stopHub()
	<-hubDone
	a.cleanup()
	return runErr
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
