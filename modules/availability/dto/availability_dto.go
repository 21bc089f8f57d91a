package dto

import (
	"time"

	"meetly/modules/availability/entity"
)

// DayAvailabilityDTO is one weekday rule as exposed over the API.
type DayAvailabilityDTO struct {
	Day         entity.DayOfWeek `json:"day"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
	IsAvailable bool             `json:"is_available"`
}

// AvailabilityResponse is the authenticated "my availability" payload.
type AvailabilityResponse struct {
	TimeGap int                  `json:"time_gap"`
	Days    []DayAvailabilityDTO `json:"days"`
}

// UpdateAvailabilityRequest replaces the whole week in one call.
type UpdateAvailabilityRequest struct {
	TimeGap int                  `json:"time_gap"`
	Days    []DayAvailabilityDTO `json:"days"`
}

// SlotDTO is one bookable interval, rendered in the display timezone.
type SlotDTO struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// DaySlots groups a day's open slots under its calendar date.
type DaySlots struct {
	Date  string    `json:"date"`
	Day   string    `json:"day"`
	Slots []SlotDTO `json:"slots"`
}

// PublicSlotsResponse is the guest-facing booking page payload.
type PublicSlotsResponse struct {
	EventID         string     `json:"event_id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	LocationType    string     `json:"location_type"`
	HostName        string     `json:"host_name"`
	Timezone        string     `json:"timezone"`
	Days            []DaySlots `json:"days"`
}

// ToAvailabilityResponse maps the aggregate to its API shape.
func ToAvailabilityResponse(week *entity.WeeklyAvailability) *AvailabilityResponse {
	days := make([]DayAvailabilityDTO, 0, len(week.Days))
	for _, d := range week.Days {
		days = append(days, DayAvailabilityDTO{
			Day:         d.Day,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			IsAvailable: d.IsAvailable,
		})
	}
	return &AvailabilityResponse{TimeGap: week.TimeGap, Days: days}
}
