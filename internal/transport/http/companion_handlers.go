package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/moodsync-server/internal/service/companion"
)

// CompanionHandlers exposes the persona endpoints. Generation failures are
// absorbed by the companion service, so these never answer 5xx.
type CompanionHandlers struct {
	svc *companion.Service
	log *zerolog.Logger
}

// NewCompanionHandlers creates persona handlers.
func NewCompanionHandlers(svc *companion.Service, logger *zerolog.Logger) *CompanionHandlers {
	return &CompanionHandlers{svc: svc, log: logger}
}

// PersonaResponse wraps a generated or fallback reply.
type PersonaResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// Motivational handles POST /api/ai-girlfriend/motivational.
func (h *CompanionHandlers) Motivational() gin.HandlerFunc {
	return personaHandler(h, "", h.svc.Motivational)
}

// Greeting handles POST /api/ai-girlfriend/greeting.
func (h *CompanionHandlers) Greeting() gin.HandlerFunc {
	return personaHandler(h, "", h.svc.Greeting)
}

// TaskCompletion handles POST /api/ai-girlfriend/task-completion.
func (h *CompanionHandlers) TaskCompletion() gin.HandlerFunc {
	return personaHandler(h, "", h.svc.TaskCompletion)
}

// AllTasksCompleted handles POST /api/ai-girlfriend/all-tasks-completed.
func (h *CompanionHandlers) AllTasksCompleted() gin.HandlerFunc {
	return personaHandler(h, "", h.svc.AllTasksCompleted)
}

// Chat handles POST /api/ai-girlfriend/chat.
func (h *CompanionHandlers) Chat() gin.HandlerFunc {
	return personaHandler(h, "Message is required", h.svc.Chat)
}

// Advice handles POST /api/wellness-coach/advice.
func (h *CompanionHandlers) Advice() gin.HandlerFunc {
	return personaHandler(h, "Query is required", h.svc.Advice)
}

// MoodSupport handles POST /api/mood-chat/support.
func (h *CompanionHandlers) MoodSupport() gin.HandlerFunc {
	return personaHandler(h, "Message is required", h.svc.MoodSupport)
}

// personaHandler binds T and replies with fn's output. An empty body binds
// the zero value. invalidMsg is returned with 400 when binding fails.
func personaHandler[T any](h *CompanionHandlers, invalidMsg string, fn func(context.Context, T) string) gin.HandlerFunc {
	if invalidMsg == "" {
		invalidMsg = "Invalid request body"
	}
	return func(c *gin.Context) {
		var req T
		err := c.ShouldBindJSON(&req)
		if errors.Is(err, io.EOF) {
			err = binding.Validator.ValidateStruct(&req)
		}
		if err != nil {
			h.log.Debug().Err(err).Str("path", c.FullPath()).Msg("invalid persona request")
			respondError(c, http.StatusBadRequest, invalidMsg)
			return
		}

		c.JSON(http.StatusOK, PersonaResponse{Success: true, Response: fn(c.Request.Context(), req)})
	}
}
