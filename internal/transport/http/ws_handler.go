package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/moodsync-server/internal/auth"
	"github.com/vovakirdan/moodsync-server/internal/config"
	"github.com/vovakirdan/moodsync-server/internal/core"
	"github.com/vovakirdan/moodsync-server/internal/utils"
)

// errHubStopped ends a connection the hub no longer serves, either because it
// stopped or because it dropped the client.
var errHubStopped = errors.New("hub stopped")

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub     *core.Hub
	auth    *auth.Service
	cfg     config.WSConfig
	origins []string
	log     *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler. authService may be nil when
// cfg.AuthRequired is false.
func NewWSHandler(hub *core.Hub, authService *auth.Service, cfg config.WSConfig, allowedOrigins []string, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:     hub,
		auth:    authService,
		cfg:     cfg,
		origins: allowedOrigins,
		log:     logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	var userID string
	if h.cfg.AuthRequired {
		claims, err := h.authenticate(r)
		if err != nil {
			h.log.Debug().Err(err).Msg("ws upgrade rejected")
			stdhttp.Error(w, "unauthorized", stdhttp.StatusUnauthorized)
			return
		}
		userID = claims.UserID
	}

	conn, err := websocket.Accept(w, r, h.acceptOptions())
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.CloseNow()
	if h.cfg.MaxMessageBytes > 0 {
		conn.SetReadLimit(h.cfg.MaxMessageBytes)
	}

	client := core.NewClient(utils.NewConnID(), h.cfg.EventBuffer)
	logger := h.log.With().Str("conn_id", client.ID).Logger()
	if !h.hub.RegisterClient(client) {
		conn.Close(websocket.StatusGoingAway, core.ReasonServerShutdown)
		return
	}
	logger.Debug().Str("remote", r.RemoteAddr).Str("auth_user_id", userID).Msg("ws connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client, &logger)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	reason := disconnectReason(err)
	if errors.Is(err, errHubStopped) {
		if closed := client.CloseReason(); closed != "" {
			reason = closed
		}
	}
	h.hub.UnregisterClient(client, reason)

	switch {
	case reason == core.ReasonServerShutdown:
		conn.Close(websocket.StatusGoingAway, reason)
	case errors.Is(err, errHubStopped):
		// Dropped by the hub because its event queue overflowed.
		logger.Warn().Str("reason", reason).Msg("ws client too slow, closing")
		conn.Close(websocket.StatusPolicyViolation, "event queue overflow")
	case reason == core.ReasonTransportError:
		logger.Warn().Err(err).Msg("ws connection closed with error")
		conn.Close(websocket.StatusInternalError, "internal error")
	default:
		logger.Debug().Str("reason", reason).Msg("ws disconnected")
		conn.Close(websocket.StatusNormalClosure, "closing")
	}
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	limiter := newEventLimiter(h.cfg.RateLimitPerMinute)
	for {
		typ, frame, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var cmd core.Command
		if typ != websocket.MessageText {
			cmd = core.Malformed{Code: core.ErrCodeUnsupported, Detail: "only text frames are supported"}
		} else {
			cmd = decodeFrame(frame)
		}
		// Heartbeats are never charged, so every one of them is acked.
		if _, heartbeat := cmd.(core.Heartbeat); !heartbeat && !limiter.allow() {
			cmd = core.Malformed{Code: core.ErrCodeRateLimited, Detail: "too many events, slow down"}
		}

		if !h.hub.Submit(client, cmd) {
			return errHubStopped
		}
	}
}

// writeLoop drains client.Events. A closed stream means the hub dropped the
// client while this handler was still running: on shutdown or after its queue
// overflowed. client.CloseReason tells which.
func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, logger *zerolog.Logger) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return errHubStopped
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				logger.Error().Err(err).Str("event", event.Kind.String()).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) authenticate(r *stdhttp.Request) (*auth.Claims, error) {
	if h.auth == nil {
		return nil, errors.New("auth service not configured")
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		token = bearerToken(r.Header.Get("Authorization"))
	}
	if token == "" {
		return nil, errors.New("missing token")
	}
	return h.auth.ValidateToken(token)
}

func (h *WSHandler) acceptOptions() *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{}
	for _, origin := range h.origins {
		if origin == "*" {
			opts.InsecureSkipVerify = true
			return opts
		}
		host := origin
		if _, rest, found := strings.Cut(origin, "://"); found {
			host = rest
		}
		opts.OriginPatterns = append(opts.OriginPatterns, host)
	}
	return opts
}

// disconnectReason maps the error that ended a connection to the reason
// reported in user_left.
func disconnectReason(err error) string {
	switch {
	case err == nil, errors.Is(err, errHubStopped):
		return core.ReasonServerShutdown
	case errors.Is(err, context.Canceled):
		return core.ReasonTransportClose
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return core.ReasonClientDisconnect
	case websocket.StatusMessageTooBig:
		return core.ReasonTransportError
	case -1:
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return core.ReasonTransportClose
		}
		return core.ReasonTransportError
	default:
		return core.ReasonTransportClose
	}
}
