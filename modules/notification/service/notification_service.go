package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"meetly/core/errors"
	"meetly/core/logger"
	"meetly/core/worker"
	"meetly/modules/notification/dto"
	"meetly/modules/notification/entity"
	"meetly/modules/notification/repository"
)

// listLimit caps how many notifications a single fetch returns.
const listLimit = 50

type NotificationServiceInterface interface {
	GetMyNotifications(ctx context.Context, userID uuid.UUID) (*dto.NotificationListResponse, *errors.AppError)
	MarkAsRead(ctx context.Context, userID uuid.UUID, req *dto.MarkAsReadRequest) *errors.AppError
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError
	CountUnread(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, *errors.AppError)
	HandleDeliverTask(ctx context.Context, task *asynq.Task) error
}

type NotificationService struct {
	repo repository.NotificationRepositoryInterface
}

func NewNotificationService(repo repository.NotificationRepositoryInterface) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID) (*dto.NotificationListResponse, *errors.AppError) {
	notifications, err := s.repo.ListByUser(ctx, userID, listLimit)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to fetch notifications", err)
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count unread notifications", err)
	}

	return &dto.NotificationListResponse{
		Notifications: dto.ToNotificationResponses(notifications),
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, req *dto.MarkAsReadRequest) *errors.AppError {
	if len(req.IDs) == 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "ids are required", nil)
	}
	if err := s.repo.MarkAsRead(ctx, userID, req.IDs); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark notifications as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark notifications as read", err)
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count unread notifications", err)
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

// HandleDeliverTask persists a notification enqueued by another module.
// Malformed payloads are dropped, storage failures return an error so the
// task retries.
func (s *NotificationService) HandleDeliverTask(ctx context.Context, task *asynq.Task) error {
	var payload worker.NotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("NotificationService:Deliver:BadPayload", "error", err)
		return nil
	}

	_, err := s.repo.Create(ctx, &entity.Notification{
		UserID:  payload.UserID,
		Title:   payload.Title,
		Message: payload.Message,
		Type:    payload.Type,
	})
	if err != nil {
		return err
	}

	logger.Info("NotificationService:Deliver:Success", "user_id", payload.UserID, "type", payload.Type)
	return nil
}
