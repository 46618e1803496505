// Package memory keeps every record in process memory. It backs the server
// when no database path is configured; data is lost on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/moodsync-server/internal/store"
)

// Store implements store.Store with mutex-guarded slices and maps.
type Store struct {
	mu            sync.RWMutex
	users         map[string]*store.User
	byEmail       map[string]string
	userOrder     []string
	moods         []*store.MoodEntry
	conversations []*store.Conversation
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:   make(map[string]*store.User),
		byEmail: make(map[string]string),
	}
}

// Kind reports the backend name.
func (s *Store) Kind() string { return "memory" }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// CreateUser inserts a copy of u.
func (s *Store) CreateUser(_ context.Context, u *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[u.Email]; taken {
		return fmt.Errorf("insert user %s: %w", u.Email, store.ErrConflict)
	}
	if _, taken := s.users[u.ID]; taken {
		return fmt.Errorf("insert user %s: %w", u.ID, store.ErrConflict)
	}
	cp := *u
	s.users[u.ID] = &cp
	s.byEmail[u.Email] = u.ID
	s.userOrder = append(s.userOrder, u.ID)
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(_ context.Context, id string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, store.ErrNotFound)
	}
	return s.GetUserByID(ctx, id)
}

// TouchUser updates the last activity time.
func (s *Store) TouchUser(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	u.LastActive = at
	return nil
}

// ListUsers returns users in insertion order.
func (s *Store) ListUsers(_ context.Context) ([]*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*store.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		cp := *s.users[id]
		users = append(users, &cp)
	}
	return users, nil
}

// SaveMood appends a copy of entry.
func (s *Store) SaveMood(_ context.Context, entry *store.MoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entry
	s.moods = append(s.moods, &cp)
	return nil
}

// ListMoods returns a page of a user's entries, newest first.
func (s *Store) ListMoods(_ context.Context, userID string, limit, offset int) ([]*store.MoodEntry, error) {
	s.mu.RLock()
	matched := make([]*store.MoodEntry, 0)
	for i := len(s.moods) - 1; i >= 0; i-- {
		if s.moods[i].UserID == userID {
			cp := *s.moods[i]
			matched = append(matched, &cp)
		}
	}
	s.mu.RUnlock()

	// Reverse insertion order breaks timestamp ties, newest insert first.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if offset >= len(matched) {
		return []*store.MoodEntry{}, nil
	}
	end := len(matched)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], nil
}

// SaveConversation appends a copy of conv.
func (s *Store) SaveConversation(_ context.Context, conv *store.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *conv
	s.conversations = append(s.conversations, &cp)
	return nil
}
