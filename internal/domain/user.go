package domain

import "time"

// UserRole distinguishes administrators from regular users.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// ValidRole reports whether the value is one of the two known roles.
func ValidRole(role UserRole) bool {
	return role == RoleAdmin || role == RoleUser
}

// User is the domain model for accounts that log in and work tickets.
type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	Role           UserRole
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
