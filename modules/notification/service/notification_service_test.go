package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetly/core/constants"
	"meetly/core/errors"
	"meetly/core/worker"
	"meetly/modules/notification/dto"
	"meetly/modules/notification/entity"
)

type fakeNotificationRepo struct {
	notifications []entity.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) (*entity.Notification, error) {
	saved := *n
	saved.ID = uuid.New()
	saved.CreatedAt = time.Now()
	f.notifications = append(f.notifications, saved)
	return &saved, nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]entity.Notification, error) {
	out := []entity.Notification{}
	for _, n := range f.notifications {
		if n.UserID == userID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for i := range f.notifications {
		if f.notifications[i].UserID == userID && wanted[f.notifications[i].ID] {
			f.notifications[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	for i := range f.notifications {
		if f.notifications[i].UserID == userID {
			f.notifications[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func deliverTask(t *testing.T, payload worker.NotificationPayload) *asynq.Task {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(constants.TaskNotificationDeliver, body)
}

func TestDeliverTask_PersistsNotification(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	userID := uuid.New()

	err := svc.HandleDeliverTask(context.Background(), deliverTask(t, worker.NotificationPayload{
		UserID:  userID,
		Title:   "New booking",
		Message: "Bob booked Intro Call",
		Type:    entity.TypeBooking,
	}))

	require.NoError(t, err)
	require.Len(t, repo.notifications, 1)
	assert.Equal(t, userID, repo.notifications[0].UserID)
	assert.False(t, repo.notifications[0].IsRead)
}

func TestDeliverTask_DropsMalformedPayload(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)

	task := asynq.NewTask(constants.TaskNotificationDeliver, []byte("not-json"))

	require.NoError(t, svc.HandleDeliverTask(context.Background(), task))
	assert.Empty(t, repo.notifications)
}

func TestGetMyNotifications_ReportsUnreadCount(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(context.Background(), &entity.Notification{
			UserID: userID,
			Title:  "New booking",
			Type:   entity.TypeBooking,
		})
		require.NoError(t, err)
	}
	require.Nil(t, svc.MarkAsRead(context.Background(), userID, &dto.MarkAsReadRequest{
		IDs: []uuid.UUID{repo.notifications[0].ID},
	}))

	resp, appErr := svc.GetMyNotifications(context.Background(), userID)

	require.Nil(t, appErr)
	assert.Len(t, resp.Notifications, 3)
	assert.Equal(t, 2, resp.UnreadCount)
}

func TestMarkAsRead_RequiresIDs(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{})

	appErr := svc.MarkAsRead(context.Background(), uuid.New(), &dto.MarkAsReadRequest{})

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestMarkAllAsRead_ClearsUnread(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		_, err := repo.Create(context.Background(), &entity.Notification{UserID: userID, Type: entity.TypeBooking})
		require.NoError(t, err)
	}

	require.Nil(t, svc.MarkAllAsRead(context.Background(), userID))

	resp, appErr := svc.CountUnread(context.Background(), userID)
	require.Nil(t, appErr)
	assert.Equal(t, 0, resp.Count)
}
