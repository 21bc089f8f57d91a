package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"meetly/core/constants"
	"meetly/core/errors"
	"meetly/modules/availability/entity"
)

// SlotEngine turns a host's weekly availability into concrete bookable
// slots, and re-validates a requested slot at booking time. It is a pure
// computation over the snapshot it is handed: no stored state, safe to
// call from any number of concurrent requests. The write-path atomicity
// that prevents double booking lives in the meeting repository, not here.
type SlotEngine struct {
	// MaxRangeDays caps a single listing query so output stays bounded.
	MaxRangeDays int
	// MinNotice drops slots starting sooner than this from now.
	MinNotice time.Duration
	// Now is injectable for tests.
	Now func() time.Time
}

func NewSlotEngine(maxRangeDays, minNoticeMinutes int) *SlotEngine {
	if maxRangeDays <= 0 {
		maxRangeDays = constants.MaxSlotRangeDays
	}
	return &SlotEngine{
		MaxRangeDays: maxRangeDays,
		MinNotice:    time.Duration(minNoticeMinutes) * time.Minute,
		Now:          time.Now,
	}
}

// SlotQuery is one listing request. RangeStart/RangeEnd are inclusive
// calendar dates (only year/month/day are read). Busy holds the host's
// non-cancelled meetings overlapping the range.
type SlotQuery struct {
	Week            *entity.WeeklyAvailability
	DurationMinutes int
	RangeStart      time.Time
	RangeEnd        time.Time
	HostTimezone    string
	DisplayTimezone string
	Busy            []entity.TimeRange
}

// ListAvailableSlots returns every free slot in the query range, ascending
// by start time. The result is a pure function of the query: identical
// inputs produce identical output.
func (e *SlotEngine) ListAvailableSlots(q SlotQuery) ([]entity.Slot, *errors.AppError) {
	hostLoc, displayLoc, appErr := e.resolveLocations(q)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := e.validate(q); appErr != nil {
		return nil, appErr
	}

	notBefore := e.Now().Add(e.MinNotice)
	duration := time.Duration(q.DurationMinutes) * time.Minute
	gap := time.Duration(q.Week.TimeGap) * time.Minute

	startY, startM, startD := q.RangeStart.Date()
	endY, endM, endD := q.RangeEnd.Date()
	rangeEnd := time.Date(endY, endM, endD, 0, 0, 0, 0, time.UTC)

	var slots []entity.Slot
	for i := 0; ; i++ {
		// Carry the calendar date in UTC purely for arithmetic; each day's
		// actual window is re-derived below from the wall-clock rule and
		// that date's offset in the host zone, so DST transitions shift
		// the instant, never the wall clock.
		date := time.Date(startY, startM, startD+i, 0, 0, 0, 0, time.UTC)
		if date.After(rangeEnd) {
			break
		}

		rule := q.Week.DayFor(entity.DayOfWeekFromWeekday(date.Weekday()))
		if rule == nil || !rule.IsAvailable {
			continue
		}

		dayStart, err := atWallClock(date, rule.StartTime, hostLoc)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("malformed start time %q", rule.StartTime), err)
		}
		dayEnd, err := atWallClock(date, rule.EndTime, hostLoc)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("malformed end time %q", rule.EndTime), err)
		}
		// start == end is a degenerate available day: zero slots, no error.
		if !dayStart.Before(dayEnd) {
			continue
		}

		for s := dayStart; !s.Add(duration).After(dayEnd); s = s.Add(gap) {
			candidate := entity.TimeRange{Start: s, End: s.Add(duration)}
			if candidate.Start.Before(notBefore) {
				continue
			}
			if overlapsAny(candidate, q.Busy) {
				continue
			}
			slots = append(slots, entity.Slot{
				Start: candidate.Start.In(displayLoc),
				End:   candidate.End.In(displayLoc),
			})
		}
	}

	return slots, nil
}

// ValidateSlot is the booking-time recheck: it regenerates the candidate
// set for the day containing requestedStart against the current busy
// snapshot and requires the request to be exactly one of those candidates.
// Already booked, outside hours, in the past and off the slot grid all
// collapse into the same user-facing condition: the slot is not available.
func (e *SlotEngine) ValidateSlot(q SlotQuery, requestedStart time.Time) (*entity.TimeRange, *errors.AppError) {
	hostLoc, _, appErr := e.resolveLocations(q)
	if appErr != nil {
		return nil, appErr
	}

	day := requestedStart.In(hostLoc)
	dayQuery := q
	dayQuery.RangeStart = day
	dayQuery.RangeEnd = day
	dayQuery.DisplayTimezone = q.HostTimezone

	slots, appErr := e.ListAvailableSlots(dayQuery)
	if appErr != nil {
		return nil, appErr
	}

	for _, s := range slots {
		if s.Start.Equal(requestedStart) {
			return &entity.TimeRange{Start: s.Start.UTC(), End: s.End.UTC()}, nil
		}
	}
	return nil, errors.NewAppError(errors.ErrSlotUnavailable, "this time is no longer available, please choose another slot", nil)
}

func (e *SlotEngine) resolveLocations(q SlotQuery) (host, display *time.Location, appErr *errors.AppError) {
	hostLoc, err := time.LoadLocation(q.HostTimezone)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInvalidTimezone, fmt.Sprintf("unknown timezone %q", q.HostTimezone), err)
	}
	displayLoc := hostLoc
	if q.DisplayTimezone != "" && q.DisplayTimezone != q.HostTimezone {
		displayLoc, err = time.LoadLocation(q.DisplayTimezone)
		if err != nil {
			return nil, nil, errors.NewAppError(errors.ErrInvalidTimezone, fmt.Sprintf("unknown timezone %q", q.DisplayTimezone), err)
		}
	}
	return hostLoc, displayLoc, nil
}

func (e *SlotEngine) validate(q SlotQuery) *errors.AppError {
	if q.DurationMinutes <= 0 {
		return errors.NewAppError(errors.ErrInvalidDuration, "event duration must be positive", nil)
	}
	if q.Week == nil || q.Week.TimeGap <= 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "availability has no slot granularity", nil)
	}

	startY, startM, startD := q.RangeStart.Date()
	endY, endM, endD := q.RangeEnd.Date()
	start := time.Date(startY, startM, startD, 0, 0, 0, 0, time.UTC)
	end := time.Date(endY, endM, endD, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return errors.NewAppError(errors.ErrInvalidRange, "range end is before range start", nil)
	}
	if int(end.Sub(start).Hours()/24) >= e.MaxRangeDays {
		return errors.NewAppError(errors.ErrInvalidRange, fmt.Sprintf("range exceeds the %d day maximum", e.MaxRangeDays), nil)
	}
	return nil
}

func overlapsAny(candidate entity.TimeRange, busy []entity.TimeRange) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// atWallClock anchors an "HH:MM" wall-clock value onto a calendar date in
// the given zone. time.Date resolves the offset for that specific date, so
// each day of a range gets its own DST-correct conversion.
func atWallClock(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	hour, minute, err := parseHHMM(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc), nil
}

func parseHHMM(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}
