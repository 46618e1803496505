package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/moodsync-server/internal/auth"
	"github.com/vovakirdan/moodsync-server/internal/config"
	"github.com/vovakirdan/moodsync-server/internal/core"
	"github.com/vovakirdan/moodsync-server/internal/metrics"
	"github.com/vovakirdan/moodsync-server/internal/service/companion"
	"github.com/vovakirdan/moodsync-server/internal/service/mood"
	"github.com/vovakirdan/moodsync-server/internal/store"
)

// Deps are the services the HTTP layer routes to. Metrics may be nil.
type Deps struct {
	Hub       *core.Hub
	Auth      *auth.Service
	Store     store.Store
	Mood      *mood.Service
	Companion *companion.Service
	Metrics   *metrics.Metrics
	Info      ServiceInfo
}

// NewServer builds the HTTP server serving the REST API and the websocket endpoint.
func NewServer(cfg config.Config, deps Deps, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewHandler(cfg, deps, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewHandler mounts the websocket endpoint next to the gin router. /ws stays
// on the plain mux because gin's response writer refuses to be hijacked once
// the upgrade headers are written.
func NewHandler(cfg config.Config, deps Deps, logger *zerolog.Logger) stdhttp.Handler {
	var wsAuth *auth.Service
	if cfg.WS.AuthRequired {
		wsAuth = deps.Auth
	}

	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(deps.Hub, wsAuth, cfg.WS, cfg.CORS.AllowedOrigins, logger))
	mux.Handle("/", NewRouter(cfg, deps, logger))
	return mux
}

// NewRouter builds the gin engine with every REST route registered.
func NewRouter(cfg config.Config, deps Deps, logger *zerolog.Logger) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	dev := cfg.IsDevelopment()
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("handler panic")
		abortWithError(c, stdhttp.StatusInternalServerError, "Internal server error")
	}))
	router.Use(LoggerMiddleware(logger))
	if deps.Metrics != nil && cfg.Metrics.Enabled {
		router.Use(MetricsMiddleware(deps.Metrics))
	}
	router.Use(CORSMiddleware(cfg.CORS.AllowedOrigins))

	info := deps.Info
	info.Environment = cfg.Environment
	info.Database = deps.Store.Kind()
	infoHandlers := NewInfoHandlers(info, deps.Hub.Stats)
	apiHandlers := NewAPIHandlers(deps.Auth, dev, logger)
	moodHandlers := NewMoodHandlers(deps.Mood, dev, logger)
	companionHandlers := NewCompanionHandlers(deps.Companion, logger)

	router.GET("/", infoHandlers.Root)
	router.GET("/health", infoHandlers.Health)
	if deps.Metrics != nil && cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if cfg.DebugEndpoints {
		router.GET("/users", NewUserHandlers(deps.Store, dev, logger).ListUsers)
	}

	router.POST("/register", apiHandlers.Register)
	router.POST("/login", apiHandlers.Login)

	api := router.Group("/api")
	if cfg.AuthRequired {
		api.Use(AuthMiddleware(deps.Auth, logger))
	}
	{
		api.POST("/mood", moodHandlers.RecordMood)
		api.GET("/mood/:userId", moodHandlers.MoodHistory)
		api.POST("/conversation/log", moodHandlers.LogConversation)

		girlfriend := api.Group("/ai-girlfriend")
		girlfriend.POST("/motivational", companionHandlers.Motivational())
		girlfriend.POST("/greeting", companionHandlers.Greeting())
		girlfriend.POST("/task-completion", companionHandlers.TaskCompletion())
		girlfriend.POST("/all-tasks-completed", companionHandlers.AllTasksCompleted())
		girlfriend.POST("/chat", companionHandlers.Chat())

		api.POST("/wellness-coach/advice", companionHandlers.Advice())
		api.POST("/mood-chat/support", companionHandlers.MoodSupport())
	}

	router.NoRoute(infoHandlers.NotFound)

	return router
}
