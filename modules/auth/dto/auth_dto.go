package dto

import (
	"time"

	"github.com/google/uuid"

	"meetly/modules/auth/entity"
)

// RegisterRequest creates a host account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Timezone string `json:"timezone"`
}

// LoginRequest authenticates a host.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest edits the host's profile.
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

// UserResponse is the API shape of a host account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	ImageURL  *string   `json:"image_url,omitempty"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned on register and login.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// ToUserResponse maps an entity to its API shape.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		ImageURL:  u.ImageURL,
		Timezone:  u.Timezone,
		CreatedAt: u.CreatedAt,
	}
}
