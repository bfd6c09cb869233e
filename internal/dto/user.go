package dto

import (
	"time"

	dom "github.com/mgayathri3/SecureSignIn/internal/domain"
)

// LoginRequest is the JSON body for POST /api/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest is the JSON body for POST /api/signup. Field rules mirror
// the client-side schema; uniqueness is re-checked against live state by
// the service.
type SignupRequest struct {
	Username     string  `json:"username" binding:"required,min=3,max=50"`
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=8"`
	Role         string  `json:"role" binding:"required,oneof=Standard Privileged"`
	FirstName    string  `json:"firstName" binding:"max=100"`
	LastName     string  `json:"lastName" binding:"max=100"`
	ProfileImage *string `json:"profileImage"`
}

// UpdateProfileRequest is the JSON body for PUT /api/profile. Every field is
// optional; nil means "leave unchanged". There is no role field: a role key
// in the payload is dropped during binding and can never reach the store.
type UpdateProfileRequest struct {
	Username     *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email        *string `json:"email" binding:"omitempty,email"`
	FirstName    *string `json:"firstName" binding:"omitempty,max=100"`
	LastName     *string `json:"lastName" binding:"omitempty,max=100"`
	ProfileImage *string `json:"profileImage"`
}

// UserResponse is the public view of an account. It has no password field of
// any kind, so a digest can never leak through serialization.
type UserResponse struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	FirstName    string     `json:"firstName,omitempty"`
	LastName     string     `json:"lastName,omitempty"`
	ProfileImage *string    `json:"profileImage,omitempty"`
	LastLoginAt  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// NewUserResponse converts a domain user to its public view.
func NewUserResponse(u dom.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         string(u.Role),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: u.ProfileImage,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}

// AuthResponse is the {message, user} envelope for login, signup and
// profile update.
type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// MessageResponse is a bare {message} body (logout, errors).
type MessageResponse struct {
	Message string `json:"message"`
}
