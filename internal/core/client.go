package core

import "sync/atomic"

// DefaultEventBuffer is the outbound queue length used when none is configured.
const DefaultEventBuffer = 32

// Client is one live connection as seen by the core layer.
// Events is written only by the hub loop and closed by it on disconnect.
type Client struct {
	ID     string
	Events chan *Event

	closeReason atomic.Pointer[string]
	overflowed  bool // hub goroutine only
}

// NewClient constructs a client with an outbound event queue of the given size.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &Client{
		ID:     id,
		Events: make(chan *Event, buffer),
	}
}

// CloseReason reports why the hub closed Events, or "" while it is open.
func (c *Client) CloseReason() string {
	if r := c.closeReason.Load(); r != nil {
		return *r
	}
	return ""
}

func (c *Client) close(reason string) {
	c.closeReason.Store(&reason)
	close(c.Events)
}
