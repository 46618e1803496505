package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/moodsync-server/internal/proto"
	"github.com/vovakirdan/moodsync-server/internal/store"
)

// ErrorResponse is the body of every failed REST request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Error carries the underlying error text in development only.
	Error string `json:"error,omitempty"`
}

// UserResponse is a user without credentials. ID and UserID hold the same
// value; mobile clients read either.
type UserResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	FullName    string         `json:"fullName"`
	Email       string         `json:"email"`
	Age         *int           `json:"age"`
	Gender      *string        `json:"gender"`
	Preferences map[string]any `json:"preferences"`
	CreatedAt   string         `json:"createdAt"`
	LastActive  string         `json:"lastActive"`
}

func userResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		UserID:      u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Age:         u.Age,
		Gender:      u.Gender,
		Preferences: u.Preferences,
		CreatedAt:   proto.FormatTimestamp(u.CreatedAt),
		LastActive:  proto.FormatTimestamp(u.LastActive),
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Message: message})
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}

// respondInternal answers 500. The error text is only exposed when dev is set.
func respondInternal(c *gin.Context, dev bool, message string, err error) {
	body := ErrorResponse{Message: message}
	if dev && err != nil {
		body.Error = err.Error()
	}
	c.JSON(500, body)
}

func nowTimestamp() string {
	return proto.FormatTimestamp(time.Now())
}
