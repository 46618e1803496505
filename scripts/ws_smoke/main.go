package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/moodsync-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	token := flag.String("token", "", "JWT appended as ?token= when the server requires auth")
	userID := flag.String("user", "smoke-user", "userId to announce with user_join")
	session := flag.String("session", "smoke-session", "sessionId for chat events")
	mood := flag.String("mood", "calm", "mood to broadcast")
	scale := flag.Int("scale", 7, "mood scale 0-10")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	url := *addr
	if *token != "" {
		url += "?token=" + *token
	}

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(eventType string, payload any) error {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", eventType, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: eventType, Data: raw}); err != nil {
			return fmt.Errorf("send %s: %w", eventType, err)
		}
		return nil
	}

	steps := []struct {
		eventType string
		payload   any
	}{
		{proto.InboundUserJoin, proto.UserJoinData{UserID: *userID, Username: *userID, SessionID: *session}},
		{proto.InboundHeartbeat, struct{}{}},
		{proto.InboundMoodUpdate, proto.MoodUpdateData{UserID: *userID, Mood: *mood, Scale: scale}},
		{proto.InboundSendMessage, proto.SendMessageData{Message: "hello from smoke test", SessionID: *session, UserID: *userID}},
	}
	for _, step := range steps {
		if err := send(step.eventType, step.payload); err != nil {
			return err
		}
	}

	// mood_broadcast only reaches other connections.
	want := map[string]bool{
		"user_joined":   false,
		"heartbeat_ack": false,
		"message_sent":  false,
	}
	for remaining := len(want); remaining > 0; {
		var frame struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		fmt.Printf("received type=%s data=%s\n", frame.Type, frame.Data)

		if frame.Type == "connection_error" {
			var data proto.ConnectionErrorData
			if err := json.Unmarshal(frame.Data, &data); err == nil {
				return fmt.Errorf("server rejected event: %s (%s)", data.Detail, data.Code)
			}
			return fmt.Errorf("server rejected event: %s", frame.Data)
		}
		if seen, ok := want[frame.Type]; ok && !seen {
			want[frame.Type] = true
			remaining--
		}
	}

	fmt.Println("smoke test passed")
	return nil
}
