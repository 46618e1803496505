package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/moodsync-server/internal/auth"
)

const (
	registeredMessage = "Welcome to MoodSync! Your emotional wellness journey begins now. 🌟"
	loggedInMessage   = "Welcome back to MoodSync! Ready to continue your wellness journey? 💖"
)

// APIHandlers provides the registration and login endpoints.
type APIHandlers struct {
	authService *auth.Service
	dev         bool
	log         *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(authService *auth.Service, dev bool, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		authService: authService,
		dev:         dev,
		log:         logger,
	}
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	FullName    string         `json:"fullName"`
	Email       string         `json:"email"`
	Age         *int           `json:"age" binding:"omitempty,min=0,max=150"`
	Gender      *string        `json:"gender"`
	Password    string         `json:"password"`
	Preferences map[string]any `json:"preferences"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned with 201 on successful registration.
type RegisterResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	UserID  string       `json:"userId"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// Register handles user registration.
// POST /register
func (h *APIHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid register request")
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), auth.Registration{
		FullName:    req.FullName,
		Email:       req.Email,
		Age:         req.Age,
		Gender:      req.Gender,
		Password:    req.Password,
		Preferences: req.Preferences,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			respondError(c, http.StatusBadRequest, "Full name, email, and password are required")
		case errors.Is(err, auth.ErrInvalidEmail):
			respondError(c, http.StatusBadRequest, "Please provide a valid email address")
		case errors.Is(err, auth.ErrUserExists):
			respondError(c, http.StatusBadRequest, "User with this email already exists")
		default:
			h.log.Error().Err(err).Str("email", req.Email).Msg("failed to register user")
			respondInternal(c, h.dev, "Registration failed. Please try again.", err)
		}
		return
	}

	h.log.Info().Str("user_id", user.ID).Msg("user registered successfully")
	c.JSON(http.StatusCreated, RegisterResponse{
		Success: true,
		Message: registeredMessage,
		UserID:  user.ID,
		Token:   token,
		User:    userResponse(user),
	})
}

// Login handles user login.
// POST /login
func (h *APIHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid login request")
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			respondError(c, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, auth.ErrUserNotFound):
			respondError(c, http.StatusUnauthorized, "User not found. Please check your email or register first.")
		case errors.Is(err, auth.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "Invalid password")
		default:
			h.log.Error().Err(err).Msg("failed to login user")
			respondInternal(c, h.dev, "Login failed. Please try again.", err)
		}
		return
	}

	h.log.Info().Str("user_id", user.ID).Msg("user logged in successfully")
	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Message: loggedInMessage,
		Token:   token,
		User:    userResponse(user),
	})
}
