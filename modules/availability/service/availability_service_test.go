package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetly/core/errors"
	authentity "meetly/modules/auth/entity"
	"meetly/modules/availability/dto"
	"meetly/modules/availability/entity"
	evententity "meetly/modules/event/entity"
)

type fakeAvailabilityRepo struct {
	week     *entity.WeeklyAvailability
	replaced *dto.UpdateAvailabilityRequest
}

func (f *fakeAvailabilityRepo) CreateWithDays(ctx context.Context, userID uuid.UUID, timeGap int, days []entity.DayAvailability) error {
	return nil
}

func (f *fakeAvailabilityRepo) GetWeeklyByUserID(ctx context.Context, userID uuid.UUID) (*entity.WeeklyAvailability, error) {
	return f.week, nil
}

func (f *fakeAvailabilityRepo) ReplaceWeek(ctx context.Context, userID uuid.UUID, timeGap int, days []entity.DayAvailability) error {
	f.replaced = &dto.UpdateAvailabilityRequest{TimeGap: timeGap}
	f.week = &entity.WeeklyAvailability{TimeGap: timeGap, Days: days}
	return nil
}

type fakeUserRepo struct {
	user *authentity.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *authentity.User) (*authentity.User, error) {
	return user, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*authentity.User, error) {
	return f.user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*authentity.User, error) {
	return f.user, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*authentity.User, error) {
	if f.user != nil && f.user.Username == username {
		return f.user, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, user *authentity.User) error {
	return nil
}

type fakeEventRepo struct {
	event *evententity.Event
}

func (f *fakeEventRepo) Create(ctx context.Context, event *evententity.Event) (*evententity.Event, error) {
	return event, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*evententity.Event, error) {
	return f.event, nil
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*evententity.Event, error) {
	if f.event != nil && f.event.Slug == slug {
		return f.event, nil
	}
	return nil, nil
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

type fakeBusyRepo struct {
	busy []entity.TimeRange
}

func (f *fakeBusyRepo) ListBusyRanges(ctx context.Context, userID uuid.UUID, from, to time.Time, exclude *uuid.UUID) ([]entity.TimeRange, error) {
	return f.busy, nil
}

func fullWeek(gap int) *entity.WeeklyAvailability {
	days := make([]entity.DayAvailability, 0, 7)
	for _, d := range entity.WeekDays {
		available := d != entity.Saturday && d != entity.Sunday
		days = append(days, entity.DayAvailability{
			Day: d, StartTime: "09:00", EndTime: "17:00", IsAvailable: available,
		})
	}
	return &entity.WeeklyAvailability{TimeGap: gap, Days: days}
}

func fullWeekRequest(gap int) *dto.UpdateAvailabilityRequest {
	week := fullWeek(gap)
	req := &dto.UpdateAvailabilityRequest{TimeGap: gap}
	for _, d := range week.Days {
		req.Days = append(req.Days, dto.DayAvailabilityDTO{
			Day: d.Day, StartTime: d.StartTime, EndTime: d.EndTime, IsAvailable: d.IsAvailable,
		})
	}
	return req
}

func newServiceWithFakes(repo *fakeAvailabilityRepo, users *fakeUserRepo, events *fakeEventRepo, busy *fakeBusyRepo) *AvailabilityService {
	engine := NewSlotEngine(60, 0)
	engine.Now = func() time.Time { return fixedNow }
	return &AvailabilityService{
		repo:     repo,
		users:    users,
		events:   events,
		meetings: busy,
		engine:   engine,
	}
}

func TestUpdateAvailability_RejectsNonDivisorGap(t *testing.T) {
	svc := newServiceWithFakes(&fakeAvailabilityRepo{week: fullWeek(30)}, &fakeUserRepo{}, &fakeEventRepo{}, &fakeBusyRepo{})

	req := fullWeekRequest(30)
	req.TimeGap = 37

	_, appErr := svc.UpdateAvailability(context.Background(), uuid.New(), req)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestUpdateAvailability_RejectsIncompleteWeek(t *testing.T) {
	svc := newServiceWithFakes(&fakeAvailabilityRepo{week: fullWeek(30)}, &fakeUserRepo{}, &fakeEventRepo{}, &fakeBusyRepo{})

	req := fullWeekRequest(30)
	req.Days = req.Days[:5]

	_, appErr := svc.UpdateAvailability(context.Background(), uuid.New(), req)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestUpdateAvailability_RejectsInvertedWindow(t *testing.T) {
	svc := newServiceWithFakes(&fakeAvailabilityRepo{week: fullWeek(30)}, &fakeUserRepo{}, &fakeEventRepo{}, &fakeBusyRepo{})

	req := fullWeekRequest(30)
	req.Days[1].StartTime = "17:00"
	req.Days[1].EndTime = "09:00"

	_, appErr := svc.UpdateAvailability(context.Background(), uuid.New(), req)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidRange, appErr.Code)
}

func TestUpdateAvailability_ReplacesWeek(t *testing.T) {
	repo := &fakeAvailabilityRepo{week: fullWeek(30)}
	svc := newServiceWithFakes(repo, &fakeUserRepo{}, &fakeEventRepo{}, &fakeBusyRepo{})

	resp, appErr := svc.UpdateAvailability(context.Background(), uuid.New(), fullWeekRequest(15))

	require.Nil(t, appErr)
	require.NotNil(t, repo.replaced)
	assert.Equal(t, 15, resp.TimeGap)
	assert.Len(t, resp.Days, 7)
}

func TestGetPublicEventSlots_HidesPrivateEvents(t *testing.T) {
	hostID := uuid.New()
	users := &fakeUserRepo{user: &authentity.User{ID: hostID, Username: "alice", Timezone: "UTC"}}
	events := &fakeEventRepo{event: &evententity.Event{
		ID: uuid.New(), UserID: hostID, Slug: "intro-call", DurationMinutes: 30, IsPrivate: true,
	}}
	svc := newServiceWithFakes(&fakeAvailabilityRepo{week: fullWeek(30)}, users, events, &fakeBusyRepo{})

	_, appErr := svc.GetPublicEventSlots(context.Background(), "alice", "intro-call", "2026-03-02", "2026-03-02", "")

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestGetPublicEventSlots_GroupsSlotsByDay(t *testing.T) {
	hostID := uuid.New()
	users := &fakeUserRepo{user: &authentity.User{ID: hostID, Name: "Alice", Username: "alice", Timezone: "UTC"}}
	events := &fakeEventRepo{event: &evententity.Event{
		ID: uuid.New(), UserID: hostID, Title: "Intro Call", Slug: "intro-call",
		DurationMinutes: 60, LocationType: evententity.LocationGoogleMeet,
	}}
	svc := newServiceWithFakes(&fakeAvailabilityRepo{week: fullWeek(60)}, users, events, &fakeBusyRepo{})

	// Monday and Tuesday, eight hourly slots each.
	resp, appErr := svc.GetPublicEventSlots(context.Background(), "alice", "intro-call", "2026-03-02", "2026-03-03", "")

	require.Nil(t, appErr)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2026-03-02", resp.Days[0].Date)
	assert.Equal(t, "MONDAY", resp.Days[0].Day)
	assert.Len(t, resp.Days[0].Slots, 8)
	assert.Equal(t, "2026-03-03", resp.Days[1].Date)
	assert.Len(t, resp.Days[1].Slots, 8)
}

func TestGetPublicEventSlots_WeekendHasNoSlots(t *testing.T) {
	hostID := uuid.New()
	users := &fakeUserRepo{user: &authentity.User{ID: hostID, Username: "alice", Timezone: "UTC"}}
	events := &fakeEventRepo{event: &evententity.Event{
		ID: uuid.New(), UserID: hostID, Slug: "intro-call", DurationMinutes: 30,
	}}
	svc := newServiceWithFakes(&fakeAvailabilityRepo{week: fullWeek(30)}, users, events, &fakeBusyRepo{})

	// 2026-03-07 is a Saturday.
	resp, appErr := svc.GetPublicEventSlots(context.Background(), "alice", "intro-call", "2026-03-07", "2026-03-07", "")

	require.Nil(t, appErr)
	assert.Empty(t, resp.Days)
}
