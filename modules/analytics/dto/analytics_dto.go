package dto

import "github.com/google/uuid"

type MeetingTotalsDTO struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Past      int `json:"past"`
	Cancelled int `json:"cancelled"`
}

type DayCountDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type EventCountDTO struct {
	EventID uuid.UUID `json:"event_id"`
	Title   string    `json:"title"`
	Count   int       `json:"count"`
}

type GuestCountDTO struct {
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	Count      int    `json:"count"`
}

// DashboardResponse is the host's scheduling overview.
type DashboardResponse struct {
	Totals         MeetingTotalsDTO `json:"totals"`
	MeetingsPerDay []DayCountDTO    `json:"meetings_per_day"`
	PopularEvents  []EventCountDTO  `json:"popular_events"`
	TopGuests      []GuestCountDTO  `json:"top_guests"`
}
