package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"meetly/core/database"
	"meetly/core/logger"
	"meetly/modules/notification/entity"
)

const notificationColumns = `id, user_id, title, message, type, is_read, created_at, updated_at`

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, notification *entity.Notification) (*entity.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

type NotificationRepository struct {
	DB database.Database
}

func NewNotificationRepository(db database.Database) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) (*entity.Notification, error) {
	query := `
		INSERT INTO notifications (user_id, title, message, type)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + notificationColumns

	var saved entity.Notification
	err := r.DB.GetContext(ctx, &saved, query,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Type,
	)
	if err != nil {
		logger.Error("NotificationRepository:Create", "user_id", notification.UserID, "error", err)
		return nil, err
	}
	return &saved, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]entity.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	notifications := []entity.Notification{}
	if err := r.DB.SelectContext(ctx, &notifications, query, userID, limit); err != nil {
		logger.Error("NotificationRepository:ListByUser", "user_id", userID, "error", err)
		return nil, err
	}
	return notifications, nil
}

// MarkAsRead flips the given notifications to read. Ids belonging to other
// users are silently ignored by the user_id predicate.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(
		`UPDATE notifications SET is_read = true, updated_at = NOW() WHERE user_id = ? AND id IN (?)`,
		userID, ids,
	)
	if err != nil {
		return err
	}

	query = r.DB.SQLx().Rebind(query)
	if err := r.DB.ExecContext(ctx, query, args...); err != nil {
		logger.Error("NotificationRepository:MarkAsRead", "user_id", userID, "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true, updated_at = NOW() WHERE user_id = $1 AND is_read = false`
	if err := r.DB.ExecContext(ctx, query, userID); err != nil {
		logger.Error("NotificationRepository:MarkAllAsRead", "user_id", userID, "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`
	if err := r.DB.GetContext(ctx, &count, query, userID); err != nil {
		logger.Error("NotificationRepository:CountUnread", "user_id", userID, "error", err)
		return 0, err
	}
	return count, nil
}
