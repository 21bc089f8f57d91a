package entity

import (
	"time"

	"github.com/google/uuid"
)

type Provider string

const (
	ProviderGoogle Provider = "GOOGLE"
)

func (p Provider) Valid() bool {
	return p == ProviderGoogle
}

// Integration holds a host's OAuth connection to an external calendar
// provider. Tokens are refreshed in place; a user has at most one
// connection per provider.
type Integration struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Provider     Provider  `json:"provider" db:"provider"`
	AccessToken  string    `json:"-" db:"access_token"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	Email        string    `json:"email" db:"email"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
