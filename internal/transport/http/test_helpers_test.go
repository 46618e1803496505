package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/moodsync-server/internal/auth"
	"github.com/vovakirdan/moodsync-server/internal/config"
	"github.com/vovakirdan/moodsync-server/internal/core"
	"github.com/vovakirdan/moodsync-server/internal/metrics"
	"github.com/vovakirdan/moodsync-server/internal/service/companion"
	"github.com/vovakirdan/moodsync-server/internal/service/mood"
	"github.com/vovakirdan/moodsync-server/internal/store"
	"github.com/vovakirdan/moodsync-server/internal/store/sqlite"
)

const testJWTSecret = "test-secret"

type fakeGenerator struct {
	text string
	err  error
}

func (f fakeGenerator) Generate(context.Context, string) (string, error) {
	return f.text, f.err
}

type testEnv struct {
	handler http.Handler
	ts      *httptest.Server
	hub     *core.Hub
	stopHub context.CancelFunc
	auth    *auth.Service
	store   store.Store
}

// newTestEnv starts a hub and an httptest server backed by an in-memory
// SQLite store. mutate may adjust the configuration before routes are built.
func newTestEnv(t *testing.T, gen fakeGenerator, mutate func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Environment = "test"
	cfg.JWT.Secret = testJWTSecret
	if mutate != nil {
		mutate(&cfg)
	}

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := zerolog.Nop()
	authService := auth.NewService(st, &auth.JWTConfig{
		Secret:   []byte(cfg.JWT.Secret),
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := core.NewHub(&logger)
	go hub.Run(ctx)

	// The production server's handler, so /ws goes through the same mux.
	handler := NewServer(cfg, Deps{
		Hub:       hub,
		Auth:      authService,
		Store:     st,
		Mood:      mood.NewService(st, st),
		Companion: companion.NewService(gen, &logger, companion.WithPicker(func(int) int { return 0 })),
		Metrics:   metrics.New(),
		Info:      ServiceInfo{Version: "test", AIModel: "fake"},
	}, &logger).Handler

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return &testEnv{handler: handler, ts: ts, hub: hub, stopHub: cancel, auth: authService, store: st}
}

// do sends a request through the handler and decodes the JSON body into out
// when out is non-nil.
func (e *testEnv) do(t *testing.T, method, path, body string, out any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec
}

func (e *testEnv) wsURL(query string) string {
	u := strings.Replace(e.ts.URL, "http", "ws", 1) + "/ws"
	if query != "" {
		u += "?" + query
	}
	return u
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial %s: %v (status %d)", url, err, status)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

type wireEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, eventType string, data any) {
	t.Helper()

	frame := map[string]any{"type": eventType}
	if data != nil {
		frame["data"] = data
	}
	if err := wsjson.Write(ctx, conn, frame); err != nil {
		t.Fatalf("send %s: %v", eventType, err)
	}
}

// expect reads the next event, requires it to be of eventType and decodes
// its data into out when out is non-nil.
func expect(t *testing.T, ctx context.Context, conn *websocket.Conn, eventType string, out any) {
	t.Helper()

	var ev wireEvent
	if err := wsjson.Read(ctx, conn, &ev); err != nil {
		t.Fatalf("read %s: %v", eventType, err)
	}
	if ev.Type != eventType {
		t.Fatalf("expected %s, got %s: %s", eventType, ev.Type, ev.Data)
	}
	if out != nil {
		if err := json.Unmarshal(ev.Data, out); err != nil {
			t.Fatalf("decode %s: %v", eventType, err)
		}
	}
}

func wsContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func registerUser(t *testing.T, e *testEnv, email string) (string, string) {
	t.Helper()

	var resp RegisterResponse
	rec := e.do(t, http.MethodPost, "/register",
		`{"fullName":"Test User","email":"`+email+`","password":"secret123"}`, &resp)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d: %s", email, rec.Code, rec.Body.String())
	}
	return resp.UserID, resp.Token
}
