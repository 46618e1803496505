package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("conflict")
)

// User represents a registered user.
type User struct {
	ID           string
	FullName     string
	Email        string // stored lowercased
	Age          *int
	Gender       *string
	PasswordHash string
	Preferences  map[string]any
	CreatedAt    time.Time
	LastActive   time.Time
	IsActive     bool
}

// MoodEntry is a single mood reading recorded through the REST API.
type MoodEntry struct {
	ID        string
	UserID    string
	Mood      string
	Scale     int
	Notes     string
	Tags      []string
	Timestamp time.Time
}

// ConversationType tags which persona a conversation was held with.
type ConversationType string

const (
	ConversationGeneral    ConversationType = "general"
	ConversationGirlfriend ConversationType = "girlfriend"
	ConversationWellness   ConversationType = "wellness"
	ConversationMood       ConversationType = "mood"
)

// Conversation is one logged exchange between a user and a persona.
type Conversation struct {
	ID          string
	UserID      string
	SessionID   string
	UserMessage string
	AIResponse  string
	Type        ConversationType
	Context     map[string]any
	Timestamp   time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser inserts u. Returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, u *User) error

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByEmail retrieves a user by lowercased email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// TouchUser sets the user's last activity time.
	TouchUser(ctx context.Context, id string, at time.Time) error

	// ListUsers returns every user ordered by creation time.
	ListUsers(ctx context.Context) ([]*User, error)
}

// MoodStore handles mood entry persistence.
type MoodStore interface {
	// SaveMood persists an entry.
	SaveMood(ctx context.Context, entry *MoodEntry) error

	// ListMoods returns a user's entries newest first, skipping offset and
	// returning at most limit entries.
	ListMoods(ctx context.Context, userID string, limit, offset int) ([]*MoodEntry, error)
}

// ConversationStore handles conversation log persistence.
type ConversationStore interface {
	// SaveConversation persists a conversation entry.
	SaveConversation(ctx context.Context, conv *Conversation) error
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MoodStore
	ConversationStore

	// Kind names the backend for health and info endpoints.
	Kind() string

	// Close releases the underlying resources.
	Close() error
}
