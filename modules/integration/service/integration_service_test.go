package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetly/core/config"
	"meetly/core/constants"
	"meetly/core/errors"
	"meetly/core/worker"
	evententity "meetly/modules/event/entity"
	"meetly/modules/integration/entity"
	meetingentity "meetly/modules/meeting/entity"
)

func init() {
	config.Set(&config.Config{
		GoogleAPI: config.GoogleAPIConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "http://localhost:8000/api/v1/integration/callback",
		},
	})
}

type fakeIntegrationRepo struct {
	byUser map[uuid.UUID]*entity.Integration
}

func newFakeIntegrationRepo() *fakeIntegrationRepo {
	return &fakeIntegrationRepo{byUser: make(map[uuid.UUID]*entity.Integration)}
}

func (f *fakeIntegrationRepo) Upsert(ctx context.Context, i *entity.Integration) (*entity.Integration, error) {
	saved := *i
	saved.ID = uuid.New()
	f.byUser[i.UserID] = &saved
	return &saved, nil
}

func (f *fakeIntegrationRepo) GetByUserAndProvider(ctx context.Context, userID uuid.UUID, provider entity.Provider) (*entity.Integration, error) {
	i, ok := f.byUser[userID]
	if !ok || i.Provider != provider {
		return nil, nil
	}
	out := *i
	return &out, nil
}

func (f *fakeIntegrationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Integration, error) {
	if i, ok := f.byUser[userID]; ok {
		return []entity.Integration{*i}, nil
	}
	return []entity.Integration{}, nil
}

func (f *fakeIntegrationRepo) UpdateTokens(ctx context.Context, i *entity.Integration) error {
	f.byUser[i.UserID] = i
	return nil
}

func (f *fakeIntegrationRepo) Delete(ctx context.Context, userID uuid.UUID, provider entity.Provider) error {
	delete(f.byUser, userID)
	return nil
}

type fakeStateStore struct {
	states map[string]string
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: make(map[string]string)}
}

func (f *fakeStateStore) SetOAuthState(ctx context.Context, state, userID string) error {
	f.states[state] = userID
	return nil
}

func (f *fakeStateStore) ConsumeOAuthState(ctx context.Context, state string) (string, error) {
	userID, ok := f.states[state]
	if !ok {
		return "", fmt.Errorf("state not found")
	}
	delete(f.states, state)
	return userID, nil
}

type fakeMeetingStore struct {
	meetings map[uuid.UUID]*meetingentity.Meeting
	linked   map[uuid.UUID]string
}

func newFakeMeetingStore() *fakeMeetingStore {
	return &fakeMeetingStore{
		meetings: make(map[uuid.UUID]*meetingentity.Meeting),
		linked:   make(map[uuid.UUID]string),
	}
}

func (f *fakeMeetingStore) GetByID(ctx context.Context, id uuid.UUID) (*meetingentity.Meeting, error) {
	return f.meetings[id], nil
}

func (f *fakeMeetingStore) UpdateMeetLink(ctx context.Context, id uuid.UUID, meetLink, calendarEventID string) error {
	f.linked[id] = meetLink
	return nil
}

type fakeEventStore struct {
	events map[uuid.UUID]*evententity.Event
}

func (f *fakeEventStore) GetByID(ctx context.Context, id uuid.UUID) (*evententity.Event, error) {
	return f.events[id], nil
}

func newIntegrationFixture() (*IntegrationService, *fakeIntegrationRepo, *fakeStateStore, *fakeMeetingStore) {
	repo := newFakeIntegrationRepo()
	states := newFakeStateStore()
	meetings := newFakeMeetingStore()
	events := &fakeEventStore{events: make(map[uuid.UUID]*evententity.Event)}
	return NewIntegrationService(repo, states, meetings, events), repo, states, meetings
}

func syncTask(t *testing.T, meetingID uuid.UUID) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(worker.CalendarSyncPayload{MeetingID: meetingID})
	require.NoError(t, err)
	return asynq.NewTask(constants.TaskCalendarSync, payload)
}

func TestConnectURL_BindsStateToUser(t *testing.T) {
	svc, _, states, _ := newIntegrationFixture()
	userID := uuid.New()

	resp, appErr := svc.ConnectURL(context.Background(), userID)

	require.Nil(t, appErr)
	assert.Contains(t, resp.URL, "client_id=client-id")
	assert.Contains(t, resp.URL, "access_type=offline")

	require.Len(t, states.states, 1)
	for _, boundUser := range states.states {
		assert.Equal(t, userID.String(), boundUser)
	}
}

func TestHandleCallback_RejectsUnknownState(t *testing.T) {
	svc, _, _, _ := newIntegrationFixture()

	appErr := svc.HandleCallback(context.Background(), "never-issued", "some-code")

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestHandleCallback_RequiresStateAndCode(t *testing.T) {
	svc, _, _, _ := newIntegrationFixture()

	appErr := svc.HandleCallback(context.Background(), "", "")

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCheckIntegration_ReportsConnection(t *testing.T) {
	svc, repo, _, _ := newIntegrationFixture()
	userID := uuid.New()

	resp, appErr := svc.CheckIntegration(context.Background(), userID, string(entity.ProviderGoogle))
	require.Nil(t, appErr)
	assert.False(t, resp.Connected)

	_, err := repo.Upsert(context.Background(), &entity.Integration{
		UserID:   userID,
		Provider: entity.ProviderGoogle,
		Email:    "host@example.com",
	})
	require.NoError(t, err)

	resp, appErr = svc.CheckIntegration(context.Background(), userID, string(entity.ProviderGoogle))
	require.Nil(t, appErr)
	assert.True(t, resp.Connected)
}

func TestCheckIntegration_RejectsUnknownProvider(t *testing.T) {
	svc, _, _, _ := newIntegrationFixture()

	_, appErr := svc.CheckIntegration(context.Background(), uuid.New(), "OUTLOOK")

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestDisconnect_RemovesConnection(t *testing.T) {
	svc, repo, _, _ := newIntegrationFixture()
	userID := uuid.New()

	_, err := repo.Upsert(context.Background(), &entity.Integration{
		UserID:   userID,
		Provider: entity.ProviderGoogle,
	})
	require.NoError(t, err)

	require.Nil(t, svc.Disconnect(context.Background(), userID, string(entity.ProviderGoogle)))

	resp, appErr := svc.CheckIntegration(context.Background(), userID, string(entity.ProviderGoogle))
	require.Nil(t, appErr)
	assert.False(t, resp.Connected)
}

func TestDisconnect_NotFoundWithoutConnection(t *testing.T) {
	svc, _, _, _ := newIntegrationFixture()

	appErr := svc.Disconnect(context.Background(), uuid.New(), string(entity.ProviderGoogle))

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestCalendarSync_DropsMissingMeeting(t *testing.T) {
	svc, _, _, meetings := newIntegrationFixture()

	err := svc.HandleCalendarSyncTask(context.Background(), syncTask(t, uuid.New()))

	require.NoError(t, err)
	assert.Empty(t, meetings.linked)
}

func TestCalendarSync_DropsCancelledMeeting(t *testing.T) {
	svc, _, _, meetings := newIntegrationFixture()

	meeting := &meetingentity.Meeting{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Status:    meetingentity.StatusCancelled,
		StartTime: time.Now().Add(time.Hour),
		EndTime:   time.Now().Add(2 * time.Hour),
	}
	meetings.meetings[meeting.ID] = meeting

	err := svc.HandleCalendarSyncTask(context.Background(), syncTask(t, meeting.ID))

	require.NoError(t, err)
	assert.Empty(t, meetings.linked)
}

func TestCalendarSync_DropsWhenHostNotConnected(t *testing.T) {
	svc, _, _, meetings := newIntegrationFixture()
	events := svc.events.(*fakeEventStore)

	event := &evententity.Event{ID: uuid.New(), Title: "Intro Call"}
	events.events[event.ID] = event

	meeting := &meetingentity.Meeting{
		ID:        uuid.New(),
		EventID:   event.ID,
		UserID:    uuid.New(),
		Status:    meetingentity.StatusScheduled,
		StartTime: time.Now().Add(time.Hour),
		EndTime:   time.Now().Add(2 * time.Hour),
	}
	meetings.meetings[meeting.ID] = meeting

	err := svc.HandleCalendarSyncTask(context.Background(), syncTask(t, meeting.ID))

	require.NoError(t, err)
	assert.Empty(t, meetings.linked)
}

func TestCalendarSync_DropsMalformedPayload(t *testing.T) {
	svc, _, _, _ := newIntegrationFixture()

	task := asynq.NewTask(constants.TaskCalendarSync, []byte("not-json"))

	require.NoError(t, svc.HandleCalendarSyncTask(context.Background(), task))
}
