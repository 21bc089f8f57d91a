package dto

import (
	"time"

	"github.com/google/uuid"

	"meetly/modules/event/entity"
)

// CreateEventRequest creates a bookable event template.
type CreateEventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	IsPrivate       bool   `json:"is_private"`
	LocationType    string `json:"location_type"`
}

// UpdateEventRequest edits a template. Nil fields are left unchanged; the
// slug never changes so shared booking links stay live.
type UpdateEventRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"duration_minutes"`
	LocationType    *string `json:"location_type"`
}

// EventResponse is the API shape of an event.
type EventResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Slug            string    `json:"slug"`
	IsPrivate       bool      `json:"is_private"`
	LocationType    string    `json:"location_type"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PublicEventsResponse is a host's public booking page listing.
type PublicEventsResponse struct {
	HostName string          `json:"host_name"`
	Username string          `json:"username"`
	ImageURL *string         `json:"image_url,omitempty"`
	Events   []EventResponse `json:"events"`
}

// PublicEventResponse is a single event on a host's booking page.
type PublicEventResponse struct {
	HostName string        `json:"host_name"`
	Username string        `json:"username"`
	Event    EventResponse `json:"event"`
}

// ToEventResponse maps an entity to its API shape.
func ToEventResponse(e *entity.Event) *EventResponse {
	return &EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		DurationMinutes: e.DurationMinutes,
		Slug:            e.Slug,
		IsPrivate:       e.IsPrivate,
		LocationType:    string(e.LocationType),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// ToEventResponses maps a slice of entities.
func ToEventResponses(events []entity.Event) []EventResponse {
	result := make([]EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *ToEventResponse(&events[i]))
	}
	return result
}
