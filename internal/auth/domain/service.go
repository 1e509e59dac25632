package domain

import (
	"context"
	"errors"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error)
	Verify(ctx context.Context, accessToken string) (*Identity, error)
	EnsureUser(ctx context.Context, email, password string, role Role) error
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
	IsActive  bool   `json:"is_active"`
}

type LoginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}

// Identity is the verified caller attached to a request context.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrTokenExpired       = errors.New("token_expired")
	ErrUserDisabled       = errors.New("user_disabled")
)
