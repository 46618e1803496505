package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/moodsync-server/internal/proto"
	"github.com/vovakirdan/moodsync-server/internal/service/mood"
	"github.com/vovakirdan/moodsync-server/internal/store"
)

// MoodHandlers serves mood tracking and conversation logging.
type MoodHandlers struct {
	svc *mood.Service
	dev bool
	log *zerolog.Logger
}

// NewMoodHandlers creates mood handlers.
func NewMoodHandlers(svc *mood.Service, dev bool, logger *zerolog.Logger) *MoodHandlers {
	return &MoodHandlers{svc: svc, dev: dev, log: logger}
}

// MoodRequest is the body of POST /api/mood.
type MoodRequest struct {
	UserID string   `json:"userId" binding:"required"`
	Mood   string   `json:"mood" binding:"required"`
	Scale  *int     `json:"scale"`
	Notes  string   `json:"notes"`
	Tags   []string `json:"tags"`
}

// MoodEntryResponse is a stored mood entry.
type MoodEntryResponse struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Mood      string   `json:"mood"`
	Scale     int      `json:"scale"`
	Notes     string   `json:"notes"`
	Tags      []string `json:"tags"`
	Timestamp string   `json:"timestamp"`
}

type moodSavedResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    MoodEntryResponse `json:"data"`
}

type moodHistoryResponse struct {
	Success bool                `json:"success"`
	Data    []MoodEntryResponse `json:"data"`
	Count   int                 `json:"count"`
}

// ConversationLogRequest is the body of POST /api/conversation/log.
type ConversationLogRequest struct {
	UserID      string         `json:"userId" binding:"required"`
	SessionID   string         `json:"sessionId"`
	UserMessage string         `json:"userMessage" binding:"required"`
	AIResponse  string         `json:"aiResponse"`
	Type        string         `json:"type"`
	Context     map[string]any `json:"context"`
}

type conversationLoggedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

func moodEntryResponse(e *store.MoodEntry) MoodEntryResponse {
	return MoodEntryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Mood:      e.Mood,
		Scale:     e.Scale,
		Notes:     e.Notes,
		Tags:      e.Tags,
		Timestamp: proto.FormatTimestamp(e.Timestamp),
	}
}

// RecordMood stores a mood entry.
// POST /api/mood
func (h *MoodHandlers) RecordMood(c *gin.Context) {
	var req MoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid mood request")
		respondError(c, http.StatusBadRequest, "User ID and mood are required")
		return
	}

	entry, err := h.svc.Record(c.Request.Context(), mood.Entry{
		UserID: req.UserID,
		Mood:   req.Mood,
		Scale:  req.Scale,
		Notes:  req.Notes,
		Tags:   req.Tags,
	})
	if err != nil {
		if errors.Is(err, mood.ErrInvalidEntry) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("failed to save mood entry")
		respondInternal(c, h.dev, "Failed to save mood entry", err)
		return
	}

	c.JSON(http.StatusOK, moodSavedResponse{
		Success: true,
		Message: "Mood entry saved successfully! 🌟",
		Data:    moodEntryResponse(entry),
	})
}

// MoodHistory lists a user's mood entries, newest first.
// GET /api/mood/:userId?limit=30&offset=0
func (h *MoodHandlers) MoodHistory(c *gin.Context) {
	limit, errLimit := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(mood.DefaultLimit)))
	offset, errOffset := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if errLimit != nil || errOffset != nil {
		respondError(c, http.StatusBadRequest, "limit and offset must be integers")
		return
	}

	entries, err := h.svc.History(c.Request.Context(), c.Param("userId"), limit, offset)
	if err != nil {
		if errors.Is(err, mood.ErrInvalidEntry) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", c.Param("userId")).Msg("failed to fetch mood history")
		respondInternal(c, h.dev, "Failed to fetch mood history", err)
		return
	}

	data := make([]MoodEntryResponse, 0, len(entries))
	for _, e := range entries {
		data = append(data, moodEntryResponse(e))
	}
	c.JSON(http.StatusOK, moodHistoryResponse{Success: true, Data: data, Count: len(data)})
}

// LogConversation stores one user/AI exchange.
// POST /api/conversation/log
func (h *MoodHandlers) LogConversation(c *gin.Context) {
	var req ConversationLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid conversation log request")
		respondError(c, http.StatusBadRequest, "User ID and message are required")
		return
	}

	conv, err := h.svc.LogConversation(c.Request.Context(), mood.ConversationLog{
		UserID:      req.UserID,
		SessionID:   req.SessionID,
		UserMessage: req.UserMessage,
		AIResponse:  req.AIResponse,
		Type:        req.Type,
		Context:     req.Context,
	})
	if err != nil {
		if errors.Is(err, mood.ErrInvalidEntry) {
			respondError(c, http.StatusBadRequest, "User ID and message are required")
			return
		}
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("failed to log conversation")
		respondInternal(c, h.dev, "Failed to log conversation", err)
		return
	}

	c.JSON(http.StatusOK, conversationLoggedResponse{
		Success: true,
		Message: "Conversation logged successfully",
		ID:      conv.ID,
	})
}
