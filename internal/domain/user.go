package domain

import "time"

// Role is the access level assigned to a user at signup. It is immutable:
// the profile update path has no way to touch it.
type Role string

const (
	RoleStandard   Role = "Standard"
	RolePrivileged Role = "Privileged"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RolePrivileged
}

// User is the domain entity for a user account. PasswordHash stays inside
// the repo/service layers and is never written to a response.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	FirstName    string
	LastName     string
	ProfileImage *string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}
