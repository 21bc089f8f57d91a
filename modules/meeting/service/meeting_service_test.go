package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetly/core/errors"
	availentity "meetly/modules/availability/entity"
	availservice "meetly/modules/availability/service"
	evententity "meetly/modules/event/entity"
	"meetly/modules/meeting/dto"
	"meetly/modules/meeting/entity"
	"meetly/modules/meeting/repository"
)

var testNow = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// monday2March is inside working hours of the test week.
var monday2March = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

// fakeMeetingRepo is an in-memory stand-in that reproduces the locking
// contract: the validate callback sees exactly the scheduled meetings
// overlapping the lock window at call time.
type fakeMeetingRepo struct {
	meetings map[uuid.UUID]*entity.Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[uuid.UUID]*entity.Meeting)}
}

func (f *fakeMeetingRepo) busyIn(window availentity.TimeRange, exclude *uuid.UUID) []availentity.TimeRange {
	var busy []availentity.TimeRange
	for _, m := range f.meetings {
		if m.Status != entity.StatusScheduled {
			continue
		}
		if exclude != nil && m.ID == *exclude {
			continue
		}
		if m.Range().Overlaps(window) {
			busy = append(busy, m.Range())
		}
	}
	return busy
}

func (f *fakeMeetingRepo) CreateWithConflictCheck(ctx context.Context, meeting *entity.Meeting, lockWindow availentity.TimeRange, validate repository.ConflictValidator) (*entity.Meeting, *errors.AppError) {
	if appErr := validate(f.busyIn(lockWindow, nil)); appErr != nil {
		return nil, appErr
	}
	m := *meeting
	m.ID = uuid.New()
	m.Status = entity.StatusScheduled
	f.meetings[m.ID] = &m
	out := m
	return &out, nil
}

func (f *fakeMeetingRepo) RescheduleWithConflictCheck(ctx context.Context, meetingID uuid.UUID, slot availentity.TimeRange, lockWindow availentity.TimeRange, validate repository.ConflictValidator) (*entity.Meeting, *errors.AppError) {
	m, ok := f.meetings[meetingID]
	if !ok {
		return nil, errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
	}
	if appErr := validate(f.busyIn(lockWindow, &meetingID)); appErr != nil {
		return nil, appErr
	}
	m.StartTime = slot.Start
	m.EndTime = slot.End
	out := *m
	return &out, nil
}

func (f *fakeMeetingRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, nil
	}
	out := *m
	return &out, nil
}

func (f *fakeMeetingRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter entity.MeetingFilter) ([]entity.Meeting, error) {
	var out []entity.Meeting
	for _, m := range f.meetings {
		if m.UserID != userID {
			continue
		}
		switch filter {
		case entity.FilterCancelled:
			if m.Status != entity.StatusCancelled {
				continue
			}
		case entity.FilterUpcoming, entity.FilterPast:
			if m.Status != entity.StatusScheduled {
				continue
			}
		}
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMeetingRepo) ListBusyRanges(ctx context.Context, userID uuid.UUID, from, to time.Time, exclude *uuid.UUID) ([]availentity.TimeRange, error) {
	return f.busyIn(availentity.TimeRange{Start: from, End: to}, exclude), nil
}

func (f *fakeMeetingRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	if m, ok := f.meetings[id]; ok {
		m.Status = entity.StatusCancelled
	}
	return nil
}

func (f *fakeMeetingRepo) CountScheduledByEventID(ctx context.Context, eventID uuid.UUID) (int, error) {
	count := 0
	for _, m := range f.meetings {
		if m.EventID == eventID && m.Status == entity.StatusScheduled {
			count++
		}
	}
	return count, nil
}

func (f *fakeMeetingRepo) UpdateMeetLink(ctx context.Context, id uuid.UUID, meetLink, calendarEventID string) error {
	return nil
}

type fakeEventRepo struct {
	event *evententity.Event
}

func (f *fakeEventRepo) Create(ctx context.Context, event *evententity.Event) (*evententity.Event, error) {
	return event, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*evententity.Event, error) {
	if f.event != nil && f.event.ID == id {
		return f.event, nil
	}
	return nil, nil
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*evententity.Event, error) {
	return f.event, nil
}

func (f *fakeEventRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]evententity.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) ListPublicByUser(ctx context.Context, userID uuid.UUID) ([]evententity.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) SlugExists(ctx context.Context, userID uuid.UUID, slug string) (bool, error) {
	return false, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *evententity.Event) (*evententity.Event, error) {
	return event, nil
}

func (f *fakeEventRepo) TogglePrivacy(ctx context.Context, id uuid.UUID) (*evententity.Event, error) {
	return f.event, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

// fakeAvailability serves a fixed Monday-to-Friday 09:00-17:00 week
// through the real slot engine.
type fakeAvailability struct {
	engine *availservice.SlotEngine
	week   *availentity.WeeklyAvailability
}

func newFakeAvailability() *fakeAvailability {
	engine := availservice.NewSlotEngine(60, 0)
	engine.Now = func() time.Time { return testNow }

	days := make([]availentity.DayAvailability, 0, 7)
	for _, d := range availentity.WeekDays {
		available := d != availentity.Saturday && d != availentity.Sunday
		days = append(days, availentity.DayAvailability{
			Day: d, StartTime: "09:00", EndTime: "17:00", IsAvailable: available,
		})
	}
	return &fakeAvailability{
		engine: engine,
		week:   &availentity.WeeklyAvailability{TimeGap: 30, Days: days},
	}
}

func (f *fakeAvailability) QueryForHost(ctx context.Context, hostID uuid.UUID, durationMinutes int, rangeStart, rangeEnd time.Time, displayTimezone string) (availservice.SlotQuery, *errors.AppError) {
	return availservice.SlotQuery{
		Week:            f.week,
		DurationMinutes: durationMinutes,
		RangeStart:      rangeStart,
		RangeEnd:        rangeEnd,
		HostTimezone:    "UTC",
		DisplayTimezone: displayTimezone,
	}, nil
}

func (f *fakeAvailability) Engine() *availservice.SlotEngine {
	return f.engine
}

func newBookingFixture(t *testing.T) (MeetingServiceInterface, *fakeMeetingRepo, *evententity.Event) {
	t.Helper()

	hostID := uuid.New()
	event := &evententity.Event{
		ID:              uuid.New(),
		UserID:          hostID,
		Title:           "Intro Call",
		DurationMinutes: 30,
		Slug:            "intro-call",
		LocationType:    evententity.LocationGoogleMeet,
	}

	repo := newFakeMeetingRepo()
	svc := NewMeetingService(repo, &fakeEventRepo{event: event}, newFakeAvailability(), nil, nil)
	return svc, repo, event
}

func bookingRequest(event *evententity.Event, start time.Time) *dto.CreateMeetingRequest {
	return &dto.CreateMeetingRequest{
		EventID:    event.ID.String(),
		GuestName:  "Bob",
		GuestEmail: "bob@example.com",
		StartTime:  start,
	}
}

func TestCreateBooking_SnapshotsEventDuration(t *testing.T) {
	svc, _, event := newBookingFixture(t)

	resp, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))

	require.Nil(t, appErr)
	assert.Equal(t, monday2March, resp.StartTime)
	assert.Equal(t, monday2March.Add(30*time.Minute), resp.EndTime)
	assert.Equal(t, string(entity.StatusScheduled), resp.Status)
}

func TestCreateBooking_SecondGuestLoses(t *testing.T) {
	svc, _, event := newBookingFixture(t)

	_, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))
	require.Nil(t, appErr)

	_, appErr = svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrSlotUnavailable, appErr.Code)
}

func TestCreateBooking_AdjacentSlotStillOpen(t *testing.T) {
	svc, _, event := newBookingFixture(t)

	_, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))
	require.Nil(t, appErr)

	resp, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March.Add(30*time.Minute)))

	require.Nil(t, appErr)
	assert.Equal(t, monday2March.Add(30*time.Minute), resp.StartTime)
}

func TestCreateBooking_RejectsOffGridStart(t *testing.T) {
	svc, _, event := newBookingFixture(t)

	_, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March.Add(10*time.Minute)))

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrSlotUnavailable, appErr.Code)
}

func TestCreateBooking_PrivateEventNotFound(t *testing.T) {
	svc, _, event := newBookingFixture(t)
	event.IsPrivate = true

	_, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestCreateBooking_RequiresValidGuestEmail(t *testing.T) {
	svc, _, event := newBookingFixture(t)

	req := bookingRequest(event, monday2March)
	req.GuestEmail = "not-an-email"

	_, appErr := svc.CreateBooking(context.Background(), req)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCancelMeeting_IsTerminal(t *testing.T) {
	svc, _, event := newBookingFixture(t)

	booked, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))
	require.Nil(t, appErr)

	cancelled, appErr := svc.CancelMeeting(context.Background(), event.UserID, booked.ID)
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.StatusCancelled), cancelled.Status)

	_, appErr = svc.CancelMeeting(context.Background(), event.UserID, booked.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCancelMeeting_FreesTheSlot(t *testing.T) {
	svc, _, event := newBookingFixture(t)

	booked, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))
	require.Nil(t, appErr)

	_, appErr = svc.CancelMeeting(context.Background(), event.UserID, booked.ID)
	require.Nil(t, appErr)

	rebooked, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))
	require.Nil(t, appErr)
	assert.Equal(t, monday2March, rebooked.StartTime)
}

func TestCancelMeeting_ForbiddenForOtherUser(t *testing.T) {
	svc, _, event := newBookingFixture(t)

	booked, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))
	require.Nil(t, appErr)

	_, appErr = svc.CancelMeeting(context.Background(), uuid.New(), booked.ID)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestRescheduleMeeting_MovesWithoutSelfConflict(t *testing.T) {
	svc, _, event := newBookingFixture(t)

	booked, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))
	require.Nil(t, appErr)

	newStart := monday2March.Add(30 * time.Minute)
	moved, appErr := svc.RescheduleMeeting(context.Background(), event.UserID, booked.ID, &dto.RescheduleMeetingRequest{StartTime: newStart})

	require.Nil(t, appErr)
	assert.Equal(t, newStart, moved.StartTime)
	assert.Equal(t, newStart.Add(30*time.Minute), moved.EndTime)
	assert.Equal(t, string(entity.StatusScheduled), moved.Status)
}

func TestRescheduleMeeting_OwnSlotDoesNotBlock(t *testing.T) {
	svc, _, event := newBookingFixture(t)

	booked, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))
	require.Nil(t, appErr)

	// Rescheduling onto the meeting's current slot overlaps only itself,
	// which is excluded from the busy set.
	moved, appErr := svc.RescheduleMeeting(context.Background(), event.UserID, booked.ID, &dto.RescheduleMeetingRequest{StartTime: monday2March})

	require.Nil(t, appErr)
	assert.Equal(t, monday2March, moved.StartTime)
}

func TestRescheduleMeeting_KeepsSnapshotLength(t *testing.T) {
	svc, _, event := newBookingFixture(t)

	booked, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))
	require.Nil(t, appErr)

	newStart := monday2March.Add(time.Hour)
	wrongEnd := newStart.Add(45 * time.Minute)
	_, appErr = svc.RescheduleMeeting(context.Background(), event.UserID, booked.ID, &dto.RescheduleMeetingRequest{
		StartTime: newStart,
		EndTime:   &wrongEnd,
	})

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidDuration, appErr.Code)
}

func TestRescheduleMeeting_TargetSlotTaken(t *testing.T) {
	svc, _, event := newBookingFixture(t)

	first, appErr := svc.CreateBooking(context.Background(), bookingRequest(event, monday2March))
	require.Nil(t, appErr)
	_, appErr = svc.CreateBooking(context.Background(), bookingRequest(event, monday2March.Add(30*time.Minute)))
	require.Nil(t, appErr)

	_, appErr = svc.RescheduleMeeting(context.Background(), event.UserID, first.ID, &dto.RescheduleMeetingRequest{
		StartTime: monday2March.Add(30 * time.Minute),
	})

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrSlotUnavailable, appErr.Code)
}

func TestGetMyMeetings_RejectsUnknownFilter(t *testing.T) {
	svc, _, _ := newBookingFixture(t)

	_, appErr := svc.GetMyMeetings(context.Background(), uuid.New(), "SOMEDAY")

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}
