package dto

import (
	"time"

	"github.com/google/uuid"

	"meetly/modules/meeting/entity"
)

// CreateMeetingRequest books a slot on a public event. It comes from an
// unauthenticated guest, so the guest identifies themselves inline.
type CreateMeetingRequest struct {
	EventID        string    `json:"event_id"`
	GuestName      string    `json:"guest_name"`
	GuestEmail     string    `json:"guest_email"`
	AdditionalInfo string    `json:"additional_info"`
	StartTime      time.Time `json:"start_time"`
}

// RescheduleMeetingRequest moves a scheduled meeting. EndTime is optional;
// when present it must preserve the meeting's original length.
type RescheduleMeetingRequest struct {
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// MeetingResponse is the API shape of a booked meeting.
type MeetingResponse struct {
	ID             uuid.UUID `json:"id"`
	EventID        uuid.UUID `json:"event_id"`
	GuestName      string    `json:"guest_name"`
	GuestEmail     string    `json:"guest_email"`
	AdditionalInfo *string   `json:"additional_info,omitempty"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
	MeetLink       *string   `json:"meet_link,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToMeetingResponse maps an entity to its API shape.
func ToMeetingResponse(m *entity.Meeting) *MeetingResponse {
	return &MeetingResponse{
		ID:             m.ID,
		EventID:        m.EventID,
		GuestName:      m.GuestName,
		GuestEmail:     m.GuestEmail,
		AdditionalInfo: m.AdditionalInfo,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		Status:         string(m.Status),
		MeetLink:       m.MeetLink,
		CreatedAt:      m.CreatedAt,
	}
}

// ToMeetingResponses maps a slice of entities.
func ToMeetingResponses(meetings []entity.Meeting) []MeetingResponse {
	result := make([]MeetingResponse, 0, len(meetings))
	for i := range meetings {
		result = append(result, *ToMeetingResponse(&meetings[i]))
	}
	return result
}
