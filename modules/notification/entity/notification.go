package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification types surfaced in the app.
const (
	TypeBooking    = "BOOKING"
	TypeCancelled  = "CANCELLED"
	TypeReschedule = "RESCHEDULED"
)

type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Type      string    `json:"type" db:"type"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
