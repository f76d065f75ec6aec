package domain

import "time"

// Role enumerates the closed set of account roles.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// ParseRole validates a raw role string against the enum.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleUser, RoleAdmin:
		return Role(raw), true
	default:
		return "", false
	}
}

// Account is the domain model for a registered user.
// PasswordHash is never serialized outward.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
