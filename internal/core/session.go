package core

import "time"

// Connection is the identity attached to a live connection after user_join.
type Connection struct {
	ID        string
	UserID    string
	Username  string
	SessionID string
	JoinedAt  time.Time
}

// Registry maps connection ids to the identity they announced.
// It is not safe for concurrent use; the hub loop owns it.
type Registry struct {
	entries map[string]Connection
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Connection)}
}

// Register creates or overwrites the record for connID.
func (r *Registry) Register(connID, userID, username, sessionID string, now time.Time) Connection {
	conn := Connection{
		ID:        connID,
		UserID:    userID,
		Username:  username,
		SessionID: sessionID,
		JoinedAt:  now,
	}
	r.entries[connID] = conn
	return conn
}

// Lookup returns the record for connID. ok is false for anonymous connections.
func (r *Registry) Lookup(connID string) (Connection, bool) {
	conn, ok := r.entries[connID]
	return conn, ok
}

// Remove deletes and returns the record for connID.
// Removing an absent record is a no-op that reports ok=false.
func (r *Registry) Remove(connID string) (Connection, bool) {
	conn, ok := r.entries[connID]
	if !ok {
		return Connection{}, false
	}
	delete(r.entries, connID)
	return conn, true
}

// Len returns the number of identified connections.
func (r *Registry) Len() int {
	return len(r.entries)
}
