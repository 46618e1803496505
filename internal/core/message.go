package core

import "time"

// Author tells whether a chat message came from the user or the AI companion.
type Author string

const (
	AuthorUser Author = "user"
	AuthorAI   Author = "ai"
)

// ChatMessage is the domain model for a chat message echoed to its sender.
type ChatMessage struct {
	ID        string
	Text      string
	UserID    string
	SessionID string
	Author    Author
	CreatedAt time.Time
}
