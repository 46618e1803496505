package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/moodsync-server/internal/auth"
	"github.com/vovakirdan/moodsync-server/internal/config"
	"github.com/vovakirdan/moodsync-server/internal/core"
	"github.com/vovakirdan/moodsync-server/internal/proto"
)

func TestWebSocketMoodBroadcastAndUserLeft(t *testing.T) {
	env := newTestEnv(t, fakeGenerator{}, nil)
	ctx := wsContext(t)

	connA := dial(t, ctx, env.wsURL(""))
	connB := dial(t, ctx, env.wsURL(""))

	send(t, ctx, connA, proto.InboundUserJoin, proto.UserJoinData{UserID: "u1", Username: "Al", SessionID: "s1"})
	var joined proto.UserJoinedData
	expect(t, ctx, connA, "user_joined", &joined)
	if !joined.Success || joined.SessionID != "s1" || joined.Message != proto.JoinedMessage {
		t.Fatalf("unexpected user_joined: %+v", joined)
	}

	scale := 8
	send(t, ctx, connB, proto.InboundMoodUpdate, proto.MoodUpdateData{UserID: "u1", Mood: "happy", Scale: &scale})

	var mood proto.MoodBroadcastData
	expect(t, ctx, connA, "mood_broadcast", &mood)
	if mood.UserID != "u1" || mood.Mood != "happy" || mood.Scale != 8 {
		t.Fatalf("unexpected mood_broadcast: %+v", mood)
	}
	if _, err := time.Parse(proto.TimestampLayout, mood.Timestamp); err != nil || !strings.HasSuffix(mood.Timestamp, "Z") {
		t.Fatalf("timestamp %q is not millisecond UTC: %v", mood.Timestamp, err)
	}

	// The sender never sees its own mood: the next event it gets is the ack.
	send(t, ctx, connB, proto.InboundHeartbeat, nil)
	var ack proto.HeartbeatAckData
	expect(t, ctx, connB, "heartbeat_ack", &ack)
	if ack.Status != "connected" {
		t.Fatalf("unexpected heartbeat status %q", ack.Status)
	}

	_ = connA.Close(websocket.StatusNormalClosure, "bye")

	var left proto.UserLeftData
	expect(t, ctx, connB, "user_left", &left)
	if left.UserID != "u1" || left.Username != "Al" || left.Reason != core.ReasonClientDisconnect {
		t.Fatalf("unexpected user_left: %+v", left)
	}
}

func TestWebSocketErrorsKeepConnectionOpen(t *testing.T) {
	env := newTestEnv(t, fakeGenerator{}, nil)
	ctx := wsContext(t)
	conn := dial(t, ctx, env.wsURL(""))

	tests := []struct {
		name   string
		write  func() error
		code   string
		detail string
	}{
		{
			name:   "invalid json",
			write:  func() error { return conn.Write(ctx, websocket.MessageText, []byte("{not json")) },
			code:   core.ErrCodeBadRequest,
			detail: "invalid JSON",
		},
		{
			name:   "binary frame",
			write:  func() error { return conn.Write(ctx, websocket.MessageBinary, []byte{0x01, 0x02}) },
			code:   core.ErrCodeUnsupported,
			detail: "text frames",
		},
		{
			name:   "unknown event",
			write:  func() error { return conn.Write(ctx, websocket.MessageText, []byte(`{"type":"dance"}`)) },
			code:   core.ErrCodeBadRequest,
			detail: `unknown event type "dance"`,
		},
		{
			name: "missing scale",
			write: func() error {
				return conn.Write(ctx, websocket.MessageText, []byte(`{"type":"mood_update","data":{"userId":"u1","mood":"low"}}`))
			},
			code:   core.ErrCodeBadRequest,
			detail: "scale is required",
		},
		{
			name:   "missing payload",
			write:  func() error { return conn.Write(ctx, websocket.MessageText, []byte(`{"type":"join_support"}`)) },
			code:   core.ErrCodeBadRequest,
			detail: "roomId is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.write(); err != nil {
				t.Fatalf("write: %v", err)
			}
			var connErr proto.ConnectionErrorData
			expect(t, ctx, conn, "connection_error", &connErr)
			if connErr.Error != proto.ConnectionErrorText || connErr.Code != tt.code || !strings.Contains(connErr.Detail, tt.detail) {
				t.Fatalf("unexpected connection_error: %+v", connErr)
			}
			if connErr.Timestamp == "" {
				t.Fatalf("connection_error without timestamp")
			}
		})
	}

	send(t, ctx, conn, proto.InboundHeartbeat, nil)
	expect(t, ctx, conn, "heartbeat_ack", nil)
}

func TestWebSocketEmergencyReachesSender(t *testing.T) {
	env := newTestEnv(t, fakeGenerator{}, nil)
	ctx := wsContext(t)

	connA := dial(t, ctx, env.wsURL(""))
	connB := dial(t, ctx, env.wsURL(""))

	// Make sure B is registered before A raises the alert.
	send(t, ctx, connB, proto.InboundHeartbeat, nil)
	expect(t, ctx, connB, "heartbeat_ack", nil)

	send(t, ctx, connA, proto.InboundEmergencyAlert, proto.EmergencyAlertData{UserID: "u1", Severity: "high", Message: "help"})

	for name, conn := range map[string]*websocket.Conn{"sender": connA, "other": connB} {
		var alert proto.EmergencyNotificationData
		expect(t, ctx, conn, "emergency_notification", &alert)
		if alert.UserID != "u1" || alert.Severity != "high" || alert.Message != "help" {
			t.Fatalf("%s: unexpected alert %+v", name, alert)
		}
	}
}

func TestWebSocketChatEchoAndSupportRoom(t *testing.T) {
	env := newTestEnv(t, fakeGenerator{}, nil)
	ctx := wsContext(t)
	conn := dial(t, ctx, env.wsURL(""))

	send(t, ctx, conn, proto.InboundSendMessage, proto.SendMessageData{Message: "hi", SessionID: "s1", UserID: "u1"})
	var sent proto.MessageSentData
	expect(t, ctx, conn, "message_sent", &sent)
	if sent.ID == "" || sent.Message != "hi" || sent.UserID != "u1" || sent.Type != proto.MessageTypeUser {
		t.Fatalf("unexpected message_sent: %+v", sent)
	}

	send(t, ctx, conn, proto.InboundAIResponse, proto.AIResponseData{Response: "hello", SessionID: "s1", UserID: "u1"})
	var ai proto.AIMessageData
	expect(t, ctx, conn, "ai_message", &ai)
	if ai.ID == "" || ai.ID == sent.ID || ai.Message != "hello" || ai.Type != proto.MessageTypeAI {
		t.Fatalf("unexpected ai_message: %+v", ai)
	}

	send(t, ctx, conn, proto.InboundJoinSupport, proto.JoinSupportData{RoomID: "room-1"})
	var support proto.SupportJoinedData
	expect(t, ctx, conn, "support_joined", &support)
	if !support.Success || support.RoomID != "room-1" || support.Message != proto.SupportJoinedMessage {
		t.Fatalf("unexpected support_joined: %+v", support)
	}

	// Stats are published right after the operation that delivered the ack.
	deadline := time.Now().Add(2 * time.Second)
	for {
		stats := env.hub.Stats()
		if stats.Connections == 1 && stats.Rooms == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("unexpected stats: %+v", stats)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketRateLimit(t *testing.T) {
	env := newTestEnv(t, fakeGenerator{}, func(cfg *config.Config) {
		cfg.WS.RateLimitPerMinute = 2
	})
	ctx := wsContext(t)
	conn := dial(t, ctx, env.wsURL(""))
	peer := dial(t, ctx, env.wsURL(""))

	// Registers the peer before any mood is broadcast.
	send(t, ctx, peer, proto.InboundHeartbeat, nil)
	expect(t, ctx, peer, "heartbeat_ack", nil)

	scale := 4
	mood := proto.MoodUpdateData{UserID: "u1", Mood: "tired", Scale: &scale}
	for i := 0; i < 3; i++ {
		send(t, ctx, conn, proto.InboundMoodUpdate, mood)
	}

	var connErr proto.ConnectionErrorData
	expect(t, ctx, conn, "connection_error", &connErr)
	if connErr.Code != core.ErrCodeRateLimited {
		t.Fatalf("expected rate_limited, got %+v", connErr)
	}
	expect(t, ctx, peer, "mood_broadcast", nil)
	expect(t, ctx, peer, "mood_broadcast", nil)

	// Heartbeats are not charged: they are acked even once the limit is hit.
	for i := 0; i < 3; i++ {
		send(t, ctx, conn, proto.InboundHeartbeat, nil)
		expect(t, ctx, conn, "heartbeat_ack", nil)
	}

	send(t, ctx, conn, proto.InboundMoodUpdate, mood)
	expect(t, ctx, conn, "connection_error", &connErr)
	if connErr.Code != core.ErrCodeRateLimited {
		t.Fatalf("expected rate_limited after heartbeats, got %+v", connErr)
	}
}

func TestWebSocketDefaultLimitNeverBlocksHeartbeats(t *testing.T) {
	env := newTestEnv(t, fakeGenerator{}, nil)
	ctx := wsContext(t)
	conn := dial(t, ctx, env.wsURL(""))

	limit := config.Default().WS.RateLimitPerMinute
	for i := 0; i <= limit; i++ {
		send(t, ctx, conn, proto.InboundHeartbeat, nil)
		expect(t, ctx, conn, "heartbeat_ack", nil)
	}
}

func TestWebSocketBurstIsAckedOrClosed(t *testing.T) {
	env := newTestEnv(t, fakeGenerator{}, func(cfg *config.Config) {
		cfg.WS.EventBuffer = 4
	})
	ctx := wsContext(t)
	conn := dial(t, ctx, env.wsURL(""))

	const burst = 200
	for i := 0; i < burst; i++ {
		send(t, ctx, conn, proto.InboundHeartbeat, nil)
	}

	// Either every heartbeat is acked, or the server gives up on the
	// connection. Acks are never dropped from a connection that stays open.
	acks := 0
	for acks < burst {
		var ev wireEvent
		err := wsjson.Read(ctx, conn, &ev)
		if err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusPolicyViolation {
				t.Fatalf("after %d acks: expected overflow close, got %v", acks, err)
			}
			return
		}
		if ev.Type != "heartbeat_ack" {
			t.Fatalf("unexpected %s after %d acks: %s", ev.Type, acks, ev.Data)
		}
		acks++
	}
}

func TestWebSocketAuthRequired(t *testing.T) {
	env := newTestEnv(t, fakeGenerator{}, func(cfg *config.Config) {
		cfg.WS.AuthRequired = true
	})
	ctx := wsContext(t)

	_, resp, err := websocket.Dial(ctx, env.wsURL(""), nil)
	if err == nil {
		t.Fatalf("expected dial without token to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}

	_, resp, err = websocket.Dial(ctx, env.wsURL("token=garbage"), nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected invalid token to be rejected, err=%v", err)
	}

	token, err := auth.GenerateToken(&auth.JWTConfig{
		Secret:   []byte(testJWTSecret),
		Issuer:   "moodsync",
		Audience: "moodsync-app",
		TTL:      time.Minute,
	}, "u1", "u1@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	conn := dial(t, ctx, env.wsURL("token="+token))
	send(t, ctx, conn, proto.InboundHeartbeat, nil)
	expect(t, ctx, conn, "heartbeat_ack", nil)

	header := http.Header{"Authorization": []string{"Bearer " + token}}
	conn2, _, err := websocket.Dial(ctx, env.wsURL(""), &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		t.Fatalf("dial with bearer header: %v", err)
	}
	conn2.CloseNow()
}

func TestWebSocketServerShutdownClosesConnections(t *testing.T) {
	env := newTestEnv(t, fakeGenerator{}, nil)
	ctx := wsContext(t)
	conn := dial(t, ctx, env.wsURL(""))

	send(t, ctx, conn, proto.InboundHeartbeat, nil)
	expect(t, ctx, conn, "heartbeat_ack", nil)

	env.stopHub()

	_, _, err := conn.Read(ctx)
	if err == nil {
		t.Fatalf("expected the connection to end after shutdown")
	}
	var closeErr websocket.CloseError
	if errors.As(err, &closeErr) && closeErr.Code == websocket.StatusGoingAway && closeErr.Reason != core.ReasonServerShutdown {
		t.Fatalf("unexpected close reason %q", closeErr.Reason)
	}
}

func TestDisconnectReason(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "hub stopped", err: errHubStopped, expected: core.ReasonServerShutdown},
		{name: "normal close", err: websocket.CloseError{Code: websocket.StatusNormalClosure}, expected: core.ReasonClientDisconnect},
		{name: "going away", err: websocket.CloseError{Code: websocket.StatusGoingAway}, expected: core.ReasonClientDisconnect},
		{name: "abnormal close code", err: websocket.CloseError{Code: websocket.StatusPolicyViolation}, expected: core.ReasonTransportClose},
		{name: "eof", err: io.EOF, expected: core.ReasonTransportClose},
		{name: "canceled", err: context.Canceled, expected: core.ReasonTransportClose},
		{name: "other", err: errors.New("boom"), expected: core.ReasonTransportError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := disconnectReason(tt.err); got != tt.expected {
				t.Fatalf("disconnectReason(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}
