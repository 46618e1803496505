package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/moodsync-server/internal/store"
)

// UserHandlers provides the debug user listing.
type UserHandlers struct {
	store store.UserStore
	kind  string
	dev   bool
	log   *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(st store.Store, dev bool, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		store: st,
		kind:  st.Kind(),
		dev:   dev,
		log:   logger,
	}
}

type userListResponse struct {
	Users   []UserResponse `json:"users"`
	Count   int            `json:"count"`
	Storage string         `json:"storage"`
}

// ListUsers returns every user without password hashes.
// GET /users
func (h *UserHandlers) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list users")
		respondInternal(c, h.dev, "Failed to fetch users", err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, userResponse(u))
	}

	c.JSON(http.StatusOK, userListResponse{Users: response, Count: len(response), Storage: h.kind})
}
