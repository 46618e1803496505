// Package mood records mood entries and conversation logs.
package mood

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/moodsync-server/internal/store"
)

const (
	DefaultScale     = 5
	DefaultLimit     = 30
	MaxLimit         = 200
	DefaultSessionID = "default"
)

// ErrInvalidEntry is returned when required fields are missing or out of range.
var ErrInvalidEntry = errors.New("invalid entry")

// Entry is the input to Record. A nil Scale takes DefaultScale.
type Entry struct {
	UserID string
	Mood   string
	Scale  *int
	Notes  string
	Tags   []string
}

// ConversationLog is the input to LogConversation.
type ConversationLog struct {
	UserID      string
	SessionID   string
	UserMessage string
	AIResponse  string
	Type        string
	Context     map[string]any
}

type Service struct {
	moods         store.MoodStore
	conversations store.ConversationStore
	now           func() time.Time
}

func NewService(moods store.MoodStore, conversations store.ConversationStore) *Service {
	return &Service{
		moods:         moods,
		conversations: conversations,
		now:           time.Now,
	}
}

// Record validates e, fills defaults and persists it.
func (s *Service) Record(ctx context.Context, e Entry) (*store.MoodEntry, error) {
	userID := strings.TrimSpace(e.UserID)
	moodName := strings.TrimSpace(e.Mood)
	if userID == "" || moodName == "" {
		return nil, fmt.Errorf("%w: userId and mood are required", ErrInvalidEntry)
	}
	scale := DefaultScale
	if e.Scale != nil {
		scale = *e.Scale
	}
	if scale < 0 || scale > 10 {
		return nil, fmt.Errorf("%w: scale must be between 0 and 10", ErrInvalidEntry)
	}
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}

	entry := &store.MoodEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mood:      moodName,
		Scale:     scale,
		Notes:     e.Notes,
		Tags:      tags,
		Timestamp: s.now().UTC(),
	}
	if err := s.moods.SaveMood(ctx, entry); err != nil {
		return nil, fmt.Errorf("save mood: %w", err)
	}
	return entry, nil
}

// History returns a page of userID's entries, newest first. Non-positive
// limits take DefaultLimit, large ones are capped at MaxLimit.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]*store.MoodEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidEntry)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.moods.ListMoods(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list moods: %w", err)
	}
	return entries, nil
}

// LogConversation persists one user/AI exchange.
func (s *Service) LogConversation(ctx context.Context, l ConversationLog) (*store.Conversation, error) {
	if strings.TrimSpace(l.UserID) == "" || strings.TrimSpace(l.UserMessage) == "" {
		return nil, fmt.Errorf("%w: userId and userMessage are required", ErrInvalidEntry)
	}
	sessionID := l.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	convType := store.ConversationType(l.Type)
	if convType == "" {
		convType = store.ConversationGeneral
	}
	convCtx := l.Context
	if convCtx == nil {
		convCtx = map[string]any{}
	}

	conv := &store.Conversation{
		ID:          uuid.NewString(),
		UserID:      l.UserID,
		SessionID:   sessionID,
		UserMessage: l.UserMessage,
		AIResponse:  l.AIResponse,
		Type:        convType,
		Context:     convCtx,
		Timestamp:   s.now().UTC(),
	}
	if err := s.conversations.SaveConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}
	return conv, nil
}
