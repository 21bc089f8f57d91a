package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"meetly/core/database"
	"meetly/core/logger"
	"meetly/modules/event/entity"
)

const eventColumns = `id, user_id, title, description, duration_minutes, slug, is_private, location_type, created_at, updated_at`

// EventRepository persists bookable event templates.
type EventRepository struct {
	DB database.Database
}

func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract.
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*entity.Event, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Event, error)
	ListPublicByUser(ctx context.Context, userID uuid.UUID) ([]entity.Event, error)
	SlugExists(ctx context.Context, userID uuid.UUID, slug string) (bool, error)
	Update(ctx context.Context, event *entity.Event) (*entity.Event, error)
	TogglePrivacy(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func (r *EventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (user_id, title, description, duration_minutes, slug, is_private, location_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + eventColumns

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.UserID, event.Title, event.Description, event.DurationMinutes,
		event.Slug, event.IsPrivate, event.LocationType)
	if err != nil {
		logger.Error("EventRepository:Create", "user_id", event.UserID, "error", err)
		return nil, err
	}
	return &created, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID", "error", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = $1 AND slug = $2`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, userID, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetBySlug", "error", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = $1 ORDER BY created_at DESC`

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, query, userID); err != nil {
		logger.Error("EventRepository:ListByUser", "user_id", userID, "error", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) ListPublicByUser(ctx context.Context, userID uuid.UUID) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = $1 AND is_private = FALSE ORDER BY created_at DESC`

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, query, userID); err != nil {
		logger.Error("EventRepository:ListPublicByUser", "user_id", userID, "error", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) SlugExists(ctx context.Context, userID uuid.UUID, slug string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM events WHERE user_id = $1 AND slug = $2)`, userID, slug)
	if err != nil {
		logger.Error("EventRepository:SlugExists", "error", err)
		return false, err
	}
	return exists, nil
}

// Update rewrites the editable fields. The slug is deliberately left
// untouched so shared booking links keep working.
func (r *EventRepository) Update(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		UPDATE events
		SET title = $2, description = $3, duration_minutes = $4, location_type = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns

	var updated entity.Event
	err := r.DB.GetContext(ctx, &updated, query,
		event.ID, event.Title, event.Description, event.DurationMinutes, event.LocationType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:Update", "event_id", event.ID, "error", err)
		return nil, err
	}
	return &updated, nil
}

func (r *EventRepository) TogglePrivacy(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		UPDATE events
		SET is_private = NOT is_private, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:TogglePrivacy", "event_id", id, "error", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		logger.Error("EventRepository:Delete", "event_id", id, "error", err)
		return err
	}
	return nil
}
