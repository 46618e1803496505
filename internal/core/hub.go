package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const opsBuffer = 256

// Observer receives hub activity for instrumentation.
type Observer interface {
	ClientConnected()
	ClientDisconnected(identified bool)
	CommandHandled(kind CommandKind)
	EventDropped(kind EventKind)
}

type nopObserver struct{}

func (nopObserver) ClientConnected()           {}
func (nopObserver) ClientDisconnected(bool)    {}
func (nopObserver) CommandHandled(CommandKind) {}
func (nopObserver) EventDropped(EventKind)     {}

// Stats is a point-in-time view of hub state.
type Stats struct {
	Connections int
	Identified  int
	Rooms       int
}

// Option customizes a Hub.
type Option func(*Hub)

// WithClock overrides the time source used for server timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Hub) { h.now = now }
}

// WithIDGenerator overrides how chat message ids are produced.
func WithIDGenerator(newID func() string) Option {
	return func(h *Hub) { h.newID = newID }
}

// WithObserver attaches an instrumentation hook.
func WithObserver(o Observer) Option {
	return func(h *Hub) { h.observer = o }
}

type handlerFunc func(c *Client, cmd Command) bool

// Hub owns every live connection, the session registry and the room set.
// All state is mutated from the single goroutine running Run, so handlers
// never need locks. Other goroutines talk to it through RegisterClient,
// Submit, UnregisterClient and SendToRoom, which preserve per-caller order.
//
// A client whose event queue is full is disconnected with
// ReasonTransportError rather than silently losing events.
type Hub struct {
	clients  map[string]*Client
	registry *Registry
	rooms    *Rooms
	handlers map[CommandKind]handlerFunc
	evicted  []*Client

	ops  chan func()
	done chan struct{}

	// stopMu orders enqueue against shutdown so no op is left in ops unrun.
	stopMu  sync.RWMutex
	stopped bool

	now      func() time.Time
	newID    func() string
	observer Observer
	log      *zerolog.Logger

	connections atomic.Int64
	identified  atomic.Int64
	roomCount   atomic.Int64
}

// NewHub creates a hub. Call Run exactly once to start it.
func NewHub(logger *zerolog.Logger, opts ...Option) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	h := &Hub{
		clients:  make(map[string]*Client),
		registry: NewRegistry(),
		rooms:    NewRooms(),
		ops:      make(chan func(), opsBuffer),
		done:     make(chan struct{}),
		now:      time.Now,
		newID:    uuid.NewString,
		observer: nopObserver{},
		log:      logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.handlers = map[CommandKind]handlerFunc{
		CommandUserJoin:        handle(h.handleUserJoin),
		CommandMoodUpdate:      handle(h.handleMoodUpdate),
		CommandSendMessage:     handle(h.handleSendMessage),
		CommandAIResponse:      handle(h.handleAIResponse),
		CommandTyping:          handle(h.handleTyping),
		CommandJoinSupport:     handle(h.handleJoinSupport),
		CommandEmergencyAlert:  handle(h.handleEmergencyAlert),
		CommandWellnessCheckin: handle(h.handleWellnessCheckin),
		CommandHeartbeat:       handle(h.handleHeartbeat),
		CommandMalformed:       handle(h.handleMalformed),
	}
	return h
}

func handle[T Command](fn func(*Client, T)) handlerFunc {
	return func(c *Client, cmd Command) bool {
		typed, ok := cmd.(T)
		if !ok {
			return false
		}
		fn(c, typed)
		return true
	}
}

// Run processes hub operations until ctx is cancelled. On exit every
// accepted operation has run and every client's event stream is closed.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case fn := <-h.ops:
			fn()
			h.evictOverflowed()
			h.publishStats()
		}
	}
}

// RegisterClient adds a freshly connected, anonymous client.
func (h *Hub) RegisterClient(c *Client) bool {
	return h.enqueue(func() { h.connect(c) })
}

// Submit queues an inbound command from c.
func (h *Hub) Submit(c *Client, cmd Command) bool {
	return h.enqueue(func() { h.dispatch(c, cmd) })
}

// UnregisterClient removes c. Repeated calls for the same client are no-ops.
func (h *Hub) UnregisterClient(c *Client, reason string) bool {
	return h.enqueue(func() { h.disconnect(c, reason) })
}

// SendToRoom delivers ev to every member of roomID. Unknown rooms are empty.
func (h *Hub) SendToRoom(roomID string, ev *Event) bool {
	return h.enqueue(func() {
		for _, id := range h.rooms.Members(roomID) {
			if c, ok := h.clients[id]; ok {
				h.deliver(c, ev)
			}
		}
	})
}

// Stats returns counts as of the last processed operation.
func (h *Hub) Stats() Stats {
	return Stats{
		Connections: int(h.connections.Load()),
		Identified:  int(h.identified.Load()),
		Rooms:       int(h.roomCount.Load()),
	}
}

func (h *Hub) enqueue(fn func()) bool {
	h.stopMu.RLock()
	defer h.stopMu.RUnlock()
	if h.stopped {
		return false
	}
	select {
	case h.ops <- fn:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) publishStats() {
	h.connections.Store(int64(len(h.clients)))
	h.identified.Store(int64(h.registry.Len()))
	h.roomCount.Store(int64(h.rooms.Len()))
}

func (h *Hub) connect(c *Client) {
	if _, exists := h.clients[c.ID]; exists {
		return
	}
	h.clients[c.ID] = c
	h.observer.ClientConnected()
	h.log.Debug().Str("conn_id", c.ID).Int("connections", len(h.clients)).Msg("client connected")
}

func (h *Hub) disconnect(c *Client, reason string) {
	current, ok := h.clients[c.ID]
	if !ok || current != c {
		return
	}
	delete(h.clients, c.ID)
	h.rooms.LeaveAll(c.ID)
	c.close(reason)

	conn, identified := h.registry.Remove(c.ID)
	h.observer.ClientDisconnected(identified)
	if !identified {
		h.log.Debug().Str("conn_id", c.ID).Str("reason", reason).Msg("anonymous client disconnected")
		return
	}

	h.log.Info().
		Str("conn_id", c.ID).
		Str("user_id", conn.UserID).
		Str("username", conn.Username).
		Str("reason", reason).
		Msg("user disconnected")

	h.broadcastOthers(c, &Event{Kind: EventUserLeft, Data: UserLeft{
		UserID:   conn.UserID,
		Username: conn.Username,
		Reason:   reason,
	}})
}

func (h *Hub) dispatch(c *Client, cmd Command) {
	if _, ok := h.clients[c.ID]; !ok {
		h.log.Debug().Str("conn_id", c.ID).Msg("dropping command from unregistered client")
		return
	}
	if cmd == nil {
		h.reportError(c, ErrCodeBadRequest, "empty command")
		return
	}
	kind := cmd.Kind()
	fn, ok := h.handlers[kind]
	if !ok || !fn(c, cmd) {
		h.reportError(c, ErrCodeBadRequest, "unsupported event "+kind.String())
		return
	}
	h.observer.CommandHandled(kind)
}

// shutdown stops accepting operations, runs the ones already queued and then
// closes every client, including those whose connect was still pending.
func (h *Hub) shutdown() {
	// Unblocks enqueuers waiting on a full ops channel before taking the lock.
	close(h.done)
	h.stopMu.Lock()
	h.stopped = true
	h.stopMu.Unlock()

drain:
	for {
		select {
		case fn := <-h.ops:
			fn()
		default:
			break drain
		}
	}

	h.evicted = nil
	for id, c := range h.clients {
		c.close(ReasonServerShutdown)
		delete(h.clients, id)
	}
	h.registry = NewRegistry()
	h.rooms = NewRooms()
	h.publishStats()
	h.log.Info().Msg("hub stopped")
}

// deliver pushes ev to c without blocking. A full queue marks c for
// eviction; it receives nothing further and is disconnected once the
// current operation finishes.
func (h *Hub) deliver(c *Client, ev *Event) {
	if c.overflowed {
		return
	}
	select {
	case c.Events <- ev:
	default:
		c.overflowed = true
		h.evicted = append(h.evicted, c)
		h.observer.EventDropped(ev.Kind)
		h.log.Warn().Str("conn_id", c.ID).Str("event", ev.Kind.String()).Msg("client queue full, dropping connection")
	}
}

// evictOverflowed disconnects clients marked by deliver. A departure notice
// can overflow further clients, so it runs until none are left.
func (h *Hub) evictOverflowed() {
	for len(h.evicted) > 0 {
		c := h.evicted[0]
		h.evicted = h.evicted[1:]
		h.disconnect(c, ReasonTransportError)
	}
}

func (h *Hub) echo(c *Client, ev *Event) {
	h.deliver(c, ev)
}

func (h *Hub) broadcastOthers(sender *Client, ev *Event) {
	for id, c := range h.clients {
		if id == sender.ID {
			continue
		}
		h.deliver(c, ev)
	}
}

func (h *Hub) broadcastAll(ev *Event) {
	for _, c := range h.clients {
		h.deliver(c, ev)
	}
}

func (h *Hub) reportError(c *Client, code, detail string) {
	h.log.Debug().Str("conn_id", c.ID).Str("code", code).Str("detail", detail).Msg("inbound event rejected")
	h.echo(c, &Event{Kind: EventConnectionError, Data: ConnectionError{
		Code:      code,
		Detail:    detail,
		Timestamp: h.timestamp(),
	}})
}

func (h *Hub) timestamp() time.Time {
	return h.now().UTC()
}
