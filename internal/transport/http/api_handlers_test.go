package http

import (
	"net/http"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, fakeGenerator{}, nil)

	var reg RegisterResponse
	rec := env.do(t, http.MethodPost, "/register",
		`{"fullName":"Ada Lovelace","email":"Ada@Example.com","password":"secret123","age":29,"preferences":{"theme":"dark"}}`, &reg)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d: %s", rec.Code, rec.Body.String())
	}
	if !reg.Success || reg.Token == "" || reg.UserID == "" || reg.User.Email != "ada@example.com" {
		t.Fatalf("unexpected register response: %+v", reg)
	}
	if reg.User.Age == nil || *reg.User.Age != 29 || reg.User.Preferences["theme"] != "dark" {
		t.Fatalf("optional fields not echoed: %+v", reg.User)
	}

	claims, err := env.auth.ValidateToken(reg.Token)
	if err != nil || claims.UserID != reg.UserID {
		t.Fatalf("token does not identify the user: %v %+v", err, claims)
	}

	var login LoginResponse
	rec = env.do(t, http.MethodPost, "/login", `{"email":"ada@example.com","password":"secret123"}`, &login)
	if rec.Code != http.StatusOK || !login.Success || login.Token == "" || login.User.ID != reg.UserID {
		t.Fatalf("login: status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterErrors(t *testing.T) {
	env := newTestEnv(t, fakeGenerator{}, nil)
	registerUser(t, env, "taken@example.com")

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{
			name:    "missing fields",
			body:    `{"email":"a@example.com"}`,
			status:  http.StatusBadRequest,
			message: "Full name, email, and password are required",
		},
		{
			name:    "invalid email",
			body:    `{"fullName":"A","email":"not-an-email","password":"x"}`,
			status:  http.StatusBadRequest,
			message: "Please provide a valid email address",
		},
		{
			name:    "duplicate email",
			body:    `{"fullName":"A","email":"TAKEN@example.com","password":"x"}`,
			status:  http.StatusBadRequest,
			message: "User with this email already exists",
		},
		{
			name:    "malformed body",
			body:    `{"fullName":`,
			status:  http.StatusBadRequest,
			message: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp ErrorResponse
			rec := env.do(t, http.MethodPost, "/register", tt.body, &resp)
			if rec.Code != tt.status || resp.Success || resp.Message != tt.message {
				t.Fatalf("got %d %+v, want %d %q", rec.Code, resp, tt.status, tt.message)
			}
		})
	}
}

func TestLoginErrors(t *testing.T) {
	env := newTestEnv(t, fakeGenerator{}, nil)
	registerUser(t, env, "bo@example.com")

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{name: "missing password", body: `{"email":"bo@example.com"}`, status: http.StatusBadRequest, message: "Email and password are required"},
		{name: "unknown user", body: `{"email":"nobody@example.com","password":"x"}`, status: http.StatusUnauthorized, message: "User not found. Please check your email or register first."},
		{name: "wrong password", body: `{"email":"bo@example.com","password":"wrong"}`, status: http.StatusUnauthorized, message: "Invalid password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp ErrorResponse
			rec := env.do(t, http.MethodPost, "/login", tt.body, &resp)
			if rec.Code != tt.status || resp.Message != tt.message {
				t.Fatalf("got %d %+v, want %d %q", rec.Code, resp, tt.status, tt.message)
			}
		})
	}
}
