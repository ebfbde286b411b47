package http

import (
	"time"

	"github.com/njprem/ShipRequest_BackEnd/internal/domain"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"could not validate credentials"`
}

// RegisterRequest carries the registration fields for JSON clients. Browser
// forms post the same names.
type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

// LoginRequest is accepted by /token and /login as JSON. Username is an alias
// for email so OAuth2 password-flow clients work unchanged.
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Username string `json:"username,omitempty" example:"alice@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

func (r LoginRequest) identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

// TokenResponse is returned by /token.
type TokenResponse struct {
	AccessToken string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string    `json:"token_type" example:"bearer"`
	ExpiresAt   time.Time `json:"expires_at" example:"2024-01-02T09:30:00Z"`
}

// UserResponse wraps a user object.
type UserResponse struct {
	User *domain.User `json:"user"`
}
