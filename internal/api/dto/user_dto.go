package dto

import (
	"time"

	"github.com/spec-kit/blog-platform/internal/domain"
)

// RegisterRequest payload for new identities.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest names the identity whose session cookie accompanies the call.
type RefreshRequest struct {
	UserID string `json:"userId"`
}

// LogoutRequest names the identity whose session is revoked.
type LogoutRequest struct {
	UserID string `json:"userId"`
}

// UpdateRoleRequest carries the new role. Admin-only.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UserResponse is the public identity shape.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResponse returns the access token alongside the identity.
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
}
