package core

import (
	"context"
	"testing"
	"time"
)

func startHub(t *testing.T, opts ...Option) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, opts...)
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func connect(t *testing.T, hub *Hub, id string) *Client {
	t.Helper()

	c := NewClient(id, 16)
	if !hub.RegisterClient(c) {
		t.Fatalf("register %s: hub not running", id)
	}
	return c
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// drain round-trips a heartbeat through the hub and returns every event c
// received before the acknowledgement. Since the hub processes operations in
// order, anything addressed to c earlier is already queued by then.
func drain(t *testing.T, hub *Hub, c *Client) []*Event {
	t.Helper()

	hub.Submit(c, Heartbeat{})
	var seen []*Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-c.Events:
			if !ok {
				t.Fatalf("event stream of %s closed while draining", c.ID)
			}
			if ev.Kind == EventHeartbeatAck {
				return seen
			}
			seen = append(seen, ev)
		case <-timeout:
			t.Fatalf("heartbeat ack for %s not received", c.ID)
		}
	}
}

func countKind(events []*Event, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func waitClosed(t *testing.T, c *Client) {
	t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-c.Events:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatalf("event stream of %s was not closed", c.ID)
		}
	}
}
