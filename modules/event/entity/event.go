package entity

import (
	"time"

	"github.com/google/uuid"
)

// LocationType is where a booked meeting takes place.
type LocationType string

const (
	LocationGoogleMeet LocationType = "GOOGLE_MEET"
	LocationZoom       LocationType = "ZOOM"
	LocationPhysical   LocationType = "PHYSICAL"
	LocationOther      LocationType = "OTHER"
)

// Valid reports whether the location type is one of the known values.
func (l LocationType) Valid() bool {
	switch l {
	case LocationGoogleMeet, LocationZoom, LocationPhysical, LocationOther:
		return true
	}
	return false
}

// Event is a bookable meeting template. DurationMinutes is copied onto
// each meeting at booking time, so editing an event never moves meetings
// that already exist.
type Event struct {
	ID              uuid.UUID    `db:"id" json:"id"`
	UserID          uuid.UUID    `db:"user_id" json:"user_id"`
	Title           string       `db:"title" json:"title"`
	Description     *string      `db:"description" json:"description,omitempty"`
	DurationMinutes int          `db:"duration_minutes" json:"duration_minutes"`
	Slug            string       `db:"slug" json:"slug"`
	IsPrivate       bool         `db:"is_private" json:"is_private"`
	LocationType    LocationType `db:"location_type" json:"location_type"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}
