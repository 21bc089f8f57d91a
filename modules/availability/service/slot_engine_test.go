package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetly/core/errors"
	"meetly/modules/availability/entity"
)

// fixedNow is well before every test date so notice filtering stays out of
// the way unless a test opts in.
var fixedNow = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// monday is 2026-03-02.
var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func newTestEngine() *SlotEngine {
	e := NewSlotEngine(60, 0)
	e.Now = func() time.Time { return fixedNow }
	return e
}

func mondayWeek(gap int, start, end string) *entity.WeeklyAvailability {
	return &entity.WeeklyAvailability{
		TimeGap: gap,
		Days: []entity.DayAvailability{
			{Day: entity.Monday, StartTime: start, EndTime: end, IsAvailable: true},
		},
	}
}

func utcRange(day time.Time, startHour, startMin, endHour, endMin int) entity.TimeRange {
	y, m, d := day.Date()
	return entity.TimeRange{
		Start: time.Date(y, m, d, startHour, startMin, 0, 0, time.UTC),
		End:   time.Date(y, m, d, endHour, endMin, 0, 0, time.UTC),
	}
}

func TestListAvailableSlots_SplitsWindowByGap(t *testing.T) {
	engine := newTestEngine()

	slots, appErr := engine.ListAvailableSlots(SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 30,
		RangeStart:      monday,
		RangeEnd:        monday,
		HostTimezone:    "UTC",
	})

	require.Nil(t, appErr)
	require.Len(t, slots, 2)
	assert.Equal(t, utcRange(monday, 9, 0, 9, 30).Start, slots[0].Start)
	assert.Equal(t, utcRange(monday, 9, 0, 9, 30).End, slots[0].End)
	assert.Equal(t, utcRange(monday, 9, 30, 10, 0).Start, slots[1].Start)
	assert.Equal(t, utcRange(monday, 9, 30, 10, 0).End, slots[1].End)
}

func TestListAvailableSlots_ExcludesBookedSlot(t *testing.T) {
	engine := newTestEngine()

	slots, appErr := engine.ListAvailableSlots(SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 30,
		RangeStart:      monday,
		RangeEnd:        monday,
		HostTimezone:    "UTC",
		Busy:            []entity.TimeRange{utcRange(monday, 9, 0, 9, 30)},
	})

	require.Nil(t, appErr)
	require.Len(t, slots, 1)
	assert.Equal(t, utcRange(monday, 9, 30, 10, 0).Start, slots[0].Start)
}

func TestListAvailableSlots_DropsSlotPastWindowEnd(t *testing.T) {
	engine := newTestEngine()

	// 45 minute meetings in a one hour window: 09:00-09:45 fits, the next
	// candidate 09:30-10:15 runs past 10:00 and is dropped.
	slots, appErr := engine.ListAvailableSlots(SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 45,
		RangeStart:      monday,
		RangeEnd:        monday,
		HostTimezone:    "UTC",
	})

	require.Nil(t, appErr)
	require.Len(t, slots, 1)
	assert.Equal(t, utcRange(monday, 9, 0, 9, 45).Start, slots[0].Start)
	assert.Equal(t, utcRange(monday, 9, 0, 9, 45).End, slots[0].End)
}

func TestListAvailableSlots_BackToBackMeetingsDoNotConflict(t *testing.T) {
	engine := newTestEngine()

	// A meeting ending exactly at 09:30 leaves 09:30-10:00 free: intervals
	// are half open.
	slots, appErr := engine.ListAvailableSlots(SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 30,
		RangeStart:      monday,
		RangeEnd:        monday,
		HostTimezone:    "UTC",
		Busy:            []entity.TimeRange{utcRange(monday, 8, 30, 9, 30)},
	})

	require.Nil(t, appErr)
	require.Len(t, slots, 1)
	assert.Equal(t, utcRange(monday, 9, 30, 10, 0).Start, slots[0].Start)
}

func TestListAvailableSlots_PartialOverlapBlocksSlot(t *testing.T) {
	engine := newTestEngine()

	// A meeting 09:15-09:45 clips both candidate slots.
	slots, appErr := engine.ListAvailableSlots(SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 30,
		RangeStart:      monday,
		RangeEnd:        monday,
		HostTimezone:    "UTC",
		Busy:            []entity.TimeRange{utcRange(monday, 9, 15, 9, 45)},
	})

	require.Nil(t, appErr)
	assert.Empty(t, slots)
}

func TestListAvailableSlots_UnavailableDayYieldsNothing(t *testing.T) {
	engine := newTestEngine()
	week := mondayWeek(30, "09:00", "10:00")
	week.Days[0].IsAvailable = false

	slots, appErr := engine.ListAvailableSlots(SlotQuery{
		Week:            week,
		DurationMinutes: 30,
		RangeStart:      monday,
		RangeEnd:        monday,
		HostTimezone:    "UTC",
	})

	require.Nil(t, appErr)
	assert.Empty(t, slots)
}

func TestListAvailableSlots_EmptyWindowIsNotAnError(t *testing.T) {
	engine := newTestEngine()

	slots, appErr := engine.ListAvailableSlots(SlotQuery{
		Week:            mondayWeek(30, "09:00", "09:00"),
		DurationMinutes: 30,
		RangeStart:      monday,
		RangeEnd:        monday,
		HostTimezone:    "UTC",
	})

	require.Nil(t, appErr)
	assert.Empty(t, slots)
}

func TestListAvailableSlots_MinNoticeFiltersEarlySlots(t *testing.T) {
	engine := NewSlotEngine(60, 0)
	engine.MinNotice = 45 * time.Minute
	// Now is 08:30 on the Monday itself, so with 45 minutes notice the
	// 09:00 slot is too soon but 09:30 survives.
	engine.Now = func() time.Time {
		return time.Date(2026, time.March, 2, 8, 30, 0, 0, time.UTC)
	}

	slots, appErr := engine.ListAvailableSlots(SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 30,
		RangeStart:      monday,
		RangeEnd:        monday,
		HostTimezone:    "UTC",
	})

	require.Nil(t, appErr)
	require.Len(t, slots, 1)
	assert.Equal(t, utcRange(monday, 9, 30, 10, 0).Start, slots[0].Start)
}

func TestListAvailableSlots_PastDaysYieldNothing(t *testing.T) {
	engine := NewSlotEngine(60, 0)
	engine.Now = func() time.Time {
		return time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
	}

	slots, appErr := engine.ListAvailableSlots(SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 30,
		RangeStart:      monday,
		RangeEnd:        monday,
		HostTimezone:    "UTC",
	})

	require.Nil(t, appErr)
	assert.Empty(t, slots)
}

func TestListAvailableSlots_DisplayTimezoneConversion(t *testing.T) {
	engine := newTestEngine()

	slots, appErr := engine.ListAvailableSlots(SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 30,
		RangeStart:      monday,
		RangeEnd:        monday,
		HostTimezone:    "UTC",
		DisplayTimezone: "Asia/Karachi",
	})

	require.Nil(t, appErr)
	require.Len(t, slots, 2)
	// Same instant, Karachi wall clock (+05:00).
	assert.True(t, slots[0].Start.Equal(utcRange(monday, 9, 0, 9, 30).Start))
	assert.Equal(t, "Asia/Karachi", slots[0].Start.Location().String())
	assert.Equal(t, 14, slots[0].Start.Hour())
}

func TestListAvailableSlots_WallClockSurvivesDSTTransition(t *testing.T) {
	engine := newTestEngine()
	week := &entity.WeeklyAvailability{
		TimeGap: 60,
		Days: []entity.DayAvailability{
			{Day: entity.Saturday, StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
			{Day: entity.Sunday, StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
		},
	}

	// The US springs forward on 2026-03-08. The host's 09:00 rule must hold
	// on both sides of the transition, so the UTC instant shifts by an hour.
	saturday := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)

	slots, appErr := engine.ListAvailableSlots(SlotQuery{
		Week:            week,
		DurationMinutes: 60,
		RangeStart:      saturday,
		RangeEnd:        sunday,
		HostTimezone:    "America/New_York",
	})

	require.Nil(t, appErr)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2026, time.March, 7, 14, 0, 0, 0, time.UTC).Unix(), slots[0].Start.Unix())
	assert.Equal(t, time.Date(2026, time.March, 8, 13, 0, 0, 0, time.UTC).Unix(), slots[1].Start.Unix())
	assert.Equal(t, 9, slots[0].Start.Hour())
	assert.Equal(t, 9, slots[1].Start.Hour())
}

func TestListAvailableSlots_RejectsBadInput(t *testing.T) {
	engine := newTestEngine()
	base := SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 30,
		RangeStart:      monday,
		RangeEnd:        monday,
		HostTimezone:    "UTC",
	}

	t.Run("zero duration", func(t *testing.T) {
		q := base
		q.DurationMinutes = 0
		_, appErr := engine.ListAvailableSlots(q)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidDuration, appErr.Code)
	})

	t.Run("inverted range", func(t *testing.T) {
		q := base
		q.RangeEnd = monday.AddDate(0, 0, -1)
		_, appErr := engine.ListAvailableSlots(q)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidRange, appErr.Code)
	})

	t.Run("range too wide", func(t *testing.T) {
		q := base
		q.RangeEnd = monday.AddDate(0, 0, 90)
		_, appErr := engine.ListAvailableSlots(q)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidRange, appErr.Code)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		q := base
		q.HostTimezone = "Mars/Olympus"
		_, appErr := engine.ListAvailableSlots(q)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidTimezone, appErr.Code)
	})
}

func TestValidateSlot_AcceptsOpenSlot(t *testing.T) {
	engine := newTestEngine()
	q := SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 30,
		HostTimezone:    "UTC",
	}

	got, appErr := engine.ValidateSlot(q, utcRange(monday, 9, 30, 10, 0).Start)

	require.Nil(t, appErr)
	assert.Equal(t, utcRange(monday, 9, 30, 10, 0).Start, got.Start)
	assert.Equal(t, utcRange(monday, 9, 30, 10, 0).End, got.End)
}

func TestValidateSlot_RejectsTakenSlot(t *testing.T) {
	engine := newTestEngine()
	q := SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 30,
		HostTimezone:    "UTC",
		Busy:            []entity.TimeRange{utcRange(monday, 9, 0, 9, 30)},
	}

	_, appErr := engine.ValidateSlot(q, utcRange(monday, 9, 0, 9, 30).Start)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrSlotUnavailable, appErr.Code)
}

func TestValidateSlot_RejectsOffGridStart(t *testing.T) {
	engine := newTestEngine()
	q := SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 30,
		HostTimezone:    "UTC",
	}

	// 09:10 is inside working hours but not on the 30 minute grid.
	_, appErr := engine.ValidateSlot(q, utcRange(monday, 9, 10, 9, 40).Start)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrSlotUnavailable, appErr.Code)
}

func TestValidateSlot_RejectsOutsideWorkingHours(t *testing.T) {
	engine := newTestEngine()
	q := SlotQuery{
		Week:            mondayWeek(30, "09:00", "10:00"),
		DurationMinutes: 30,
		HostTimezone:    "UTC",
	}

	_, appErr := engine.ValidateSlot(q, utcRange(monday, 11, 0, 11, 30).Start)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrSlotUnavailable, appErr.Code)
}
