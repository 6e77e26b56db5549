package dto

import (
	"time"

	"github.com/spec-kit/crm-ticketing/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful authentication. The profile
// fields mirror the token claims minted at this moment.
type LoginResponse struct {
	Token          string          `json:"token"`
	ExpiresAt      time.Time       `json:"expires_at"`
	UserID         string          `json:"user_id"`
	Username       string          `json:"username"`
	Role           domain.UserRole `json:"role"`
	Email          string          `json:"email"`
	ProfilePicture string          `json:"profile_picture"`
}

// UserRequest payload for admin create/update. Updates are full replaces.
type UserRequest struct {
	Username       string          `json:"username"`
	Password       string          `json:"password"`
	Email          string          `json:"email"`
	Role           domain.UserRole `json:"role"`
	ProfilePicture string          `json:"profile_picture"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Role           domain.UserRole `json:"role"`
	ProfilePicture string          `json:"profile_picture"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
