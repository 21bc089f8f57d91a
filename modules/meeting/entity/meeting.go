package entity

import (
	"time"

	"github.com/google/uuid"

	availentity "meetly/modules/availability/entity"
)

// MeetingStatus is the lifecycle state of a booked meeting. Cancelled is
// terminal; a reschedule moves the times and keeps the meeting scheduled.
type MeetingStatus string

const (
	StatusScheduled MeetingStatus = "SCHEDULED"
	StatusCancelled MeetingStatus = "CANCELLED"
)

// Notification types emitted on meeting lifecycle changes. The values
// match what the notification module stores.
const (
	NotifyBooking     = "BOOKING"
	NotifyCancelled   = "CANCELLED"
	NotifyRescheduled = "RESCHEDULED"
)

// Meeting is one booked slot. UserID is the host; the guest is identified
// by name and email only and needs no account. StartTime/EndTime are
// stored in UTC and the duration is a snapshot of the event's duration at
// booking time.
type Meeting struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	EventID         uuid.UUID     `db:"event_id" json:"event_id"`
	UserID          uuid.UUID     `db:"user_id" json:"user_id"`
	GuestName       string        `db:"guest_name" json:"guest_name"`
	GuestEmail      string        `db:"guest_email" json:"guest_email"`
	AdditionalInfo  *string       `db:"additional_info" json:"additional_info,omitempty"`
	StartTime       time.Time     `db:"start_time" json:"start_time"`
	EndTime         time.Time     `db:"end_time" json:"end_time"`
	Status          MeetingStatus `db:"status" json:"status"`
	MeetLink        *string       `db:"meet_link" json:"meet_link,omitempty"`
	CalendarEventID *string       `db:"calendar_event_id" json:"-"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// Range returns the meeting's occupied interval.
func (m *Meeting) Range() availentity.TimeRange {
	return availentity.TimeRange{Start: m.StartTime, End: m.EndTime}
}

// MeetingFilter selects which meetings a host listing returns.
type MeetingFilter string

const (
	FilterUpcoming  MeetingFilter = "UPCOMING"
	FilterPast      MeetingFilter = "PAST"
	FilterCancelled MeetingFilter = "CANCELLED"
	FilterAll       MeetingFilter = "ALL"
)

// Valid reports whether the filter is a known value.
func (f MeetingFilter) Valid() bool {
	switch f {
	case FilterUpcoming, FilterPast, FilterCancelled, FilterAll:
		return true
	}
	return false
}
