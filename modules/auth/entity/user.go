package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered host. Username is the public handle booking pages
// hang off of, Timezone is the IANA zone the weekly availability rules are
// interpreted in.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Username  string    `db:"username" json:"username"`
	Password  string    `db:"password" json:"-"`
	ImageURL  *string   `db:"image_url" json:"image_url,omitempty"`
	Timezone  string    `db:"timezone" json:"timezone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
