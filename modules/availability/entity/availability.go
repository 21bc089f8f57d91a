package entity

import (
	"time"

	"github.com/google/uuid"
)

// DayOfWeek is the calendar weekday an availability rule applies to.
type DayOfWeek string

const (
	Sunday    DayOfWeek = "SUNDAY"
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
)

// WeekDays lists all weekdays in calendar order, Sunday first.
var WeekDays = []DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DayOfWeekFromWeekday converts a time.Weekday.
func DayOfWeekFromWeekday(w time.Weekday) DayOfWeek {
	return WeekDays[int(w)]
}

// Availability is a host's slot-granularity setting. The per-day windows
// live in availability_days and are always replaced as a whole week.
type Availability struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	TimeGap   int       `db:"time_gap" json:"time_gap"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DayAvailability is one weekday's working window, wall clock ("HH:MM") in
// the host's configured timezone.
type DayAvailability struct {
	ID             uuid.UUID `db:"id" json:"id"`
	AvailabilityID uuid.UUID `db:"availability_id" json:"-"`
	Day            DayOfWeek `db:"day" json:"day"`
	StartTime      string    `db:"start_time" json:"start_time"`
	EndTime        string    `db:"end_time" json:"end_time"`
	IsAvailable    bool      `db:"is_available" json:"is_available"`
}

// WeeklyAvailability is the aggregate the slot engine consumes.
type WeeklyAvailability struct {
	TimeGap int
	Days    []DayAvailability
}

// DayFor returns the rule for a weekday, nil when the week has no entry.
func (w *WeeklyAvailability) DayFor(day DayOfWeek) *DayAvailability {
	for i := range w.Days {
		if w.Days[i].Day == day {
			return &w.Days[i]
		}
	}
	return nil
}

// TimeRange is a half-open [Start, End) interval of absolute instants.
type TimeRange struct {
	Start time.Time `db:"start_time" json:"start"`
	End   time.Time `db:"end_time" json:"end"`
}

// Overlaps reports half-open interval overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Slot is a derived bookable interval, expressed in the display timezone.
// Slots are computed on demand and never persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
