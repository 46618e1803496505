package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/moodsync-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when email/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned by Login for an unknown email.
	ErrUserNotFound = fmt.Errorf("user not found: %w", ErrInvalidCredentials)
	// ErrWrongPassword is returned by Login when the password does not match.
	ErrWrongPassword = fmt.Errorf("wrong password: %w", ErrInvalidCredentials)
	// ErrUserExists is returned when trying to register with an existing email.
	ErrUserExists = errors.New("user already exists")
	// ErrMissingFields is returned when a required registration or login field is empty.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidEmail is returned when the email is not of the form a@b.c.
	ErrInvalidEmail = errors.New("invalid email")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Registration holds the fields accepted by Register.
type Registration struct {
	FullName    string
	Email       string
	Age         *int
	Gender      *string
	Password    string
	Preferences map[string]any
}

// Service provides authentication operations.
type Service struct {
	store     store.UserStore
	jwtConfig *JWTConfig
	now       func() time.Time
}

// NewService creates a new authentication service.
func NewService(userStore store.UserStore, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     userStore,
		jwtConfig: jwtConfig,
		now:       time.Now,
	}
}

// Register creates a new user with a hashed password and returns it with a JWT token.
func (s *Service) Register(ctx context.Context, reg Registration) (*store.User, string, error) {
	fullName := strings.TrimSpace(reg.FullName)
	email := strings.ToLower(strings.TrimSpace(reg.Email))
	if fullName == "" || email == "" || reg.Password == "" {
		return nil, "", ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", ErrUserExists
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	hashedPassword, err := HashPassword(reg.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	prefs := reg.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	now := s.now().UTC()
	user := &store.User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        email,
		Age:          reg.Age,
		Gender:       reg.Gender,
		PasswordHash: hashedPassword,
		Preferences:  prefs,
		CreatedAt:    now,
		LastActive:   now,
		IsActive:     true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, store.ErrConflict) {
			return nil, "", ErrUserExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// Login validates credentials, records the activity and returns the user with a JWT token.
func (s *Service) Login(ctx context.Context, email, password string) (*store.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if errPwd := ComparePassword(user.PasswordHash, password); errPwd != nil {
		return nil, "", ErrWrongPassword
	}

	now := s.now().UTC()
	if err := s.store.TouchUser(ctx, user.ID, now); err != nil {
		return nil, "", fmt.Errorf("update last active: %w", err)
	}
	user.LastActive = now

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}
