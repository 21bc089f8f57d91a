package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"meetly/core/database"
	"meetly/core/logger"
	"meetly/modules/availability/entity"
)

// AvailabilityRepository persists weekly availability rules. A user's week
// is always written wholesale: the update endpoint replaces every day row
// in one transaction so readers never observe a half-updated week.
type AvailabilityRepository struct {
	DB database.Database
}

func NewAvailabilityRepository(db database.Database) *AvailabilityRepository {
	return &AvailabilityRepository{DB: db}
}

// AvailabilityRepositoryInterface defines the repository contract.
type AvailabilityRepositoryInterface interface {
	CreateWithDays(ctx context.Context, userID uuid.UUID, timeGap int, days []entity.DayAvailability) error
	GetWeeklyByUserID(ctx context.Context, userID uuid.UUID) (*entity.WeeklyAvailability, error)
	ReplaceWeek(ctx context.Context, userID uuid.UUID, timeGap int, days []entity.DayAvailability) error
}

// CreateWithDays seeds a user's availability at registration.
func (r *AvailabilityRepository) CreateWithDays(ctx context.Context, userID uuid.UUID, timeGap int, days []entity.DayAvailability) error {
	tx, err := r.DB.BeginTxx(ctx)
	if err != nil {
		logger.Error("AvailabilityRepository:CreateWithDays:Begin", "error", err)
		return err
	}
	defer tx.Rollback()

	var availabilityID uuid.UUID
	err = tx.GetContext(ctx, &availabilityID,
		`INSERT INTO availability (user_id, time_gap) VALUES ($1, $2) RETURNING id`, userID, timeGap)
	if err != nil {
		logger.Error("AvailabilityRepository:CreateWithDays:Insert", "user_id", userID, "error", err)
		return err
	}

	if err := insertDays(ctx, tx, availabilityID, days); err != nil {
		return err
	}
	return tx.Commit()
}

// GetWeeklyByUserID loads the aggregate the slot engine consumes. Returns
// nil when the user has no availability configured.
func (r *AvailabilityRepository) GetWeeklyByUserID(ctx context.Context, userID uuid.UUID) (*entity.WeeklyAvailability, error) {
	var availability entity.Availability
	err := r.DB.GetContext(ctx, &availability,
		`SELECT id, user_id, time_gap, created_at, updated_at FROM availability WHERE user_id = $1`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AvailabilityRepository:GetWeeklyByUserID", "user_id", userID, "error", err)
		return nil, err
	}

	var days []entity.DayAvailability
	err = r.DB.SelectContext(ctx, &days, `
		SELECT id, availability_id, day, start_time, end_time, is_available
		FROM availability_days
		WHERE availability_id = $1
		ORDER BY array_position(ARRAY['SUNDAY','MONDAY','TUESDAY','WEDNESDAY','THURSDAY','FRIDAY','SATURDAY'], day)
	`, availability.ID)
	if err != nil {
		logger.Error("AvailabilityRepository:GetWeeklyByUserID:Days", "user_id", userID, "error", err)
		return nil, err
	}

	return &entity.WeeklyAvailability{TimeGap: availability.TimeGap, Days: days}, nil
}

// ReplaceWeek swaps the user's entire week for the given rules.
func (r *AvailabilityRepository) ReplaceWeek(ctx context.Context, userID uuid.UUID, timeGap int, days []entity.DayAvailability) error {
	tx, err := r.DB.BeginTxx(ctx)
	if err != nil {
		logger.Error("AvailabilityRepository:ReplaceWeek:Begin", "error", err)
		return err
	}
	defer tx.Rollback()

	var availabilityID uuid.UUID
	err = tx.GetContext(ctx, &availabilityID, `
		UPDATE availability SET time_gap = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING id
	`, userID, timeGap)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		logger.Error("AvailabilityRepository:ReplaceWeek:Update", "user_id", userID, "error", err)
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM availability_days WHERE availability_id = $1`, availabilityID); err != nil {
		logger.Error("AvailabilityRepository:ReplaceWeek:Clear", "user_id", userID, "error", err)
		return err
	}

	if err := insertDays(ctx, tx, availabilityID, days); err != nil {
		return err
	}
	return tx.Commit()
}

func insertDays(ctx context.Context, tx *sqlx.Tx, availabilityID uuid.UUID, days []entity.DayAvailability) error {
	query := `
		INSERT INTO availability_days (availability_id, day, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, d := range days {
		if _, err := tx.ExecContext(ctx, query, availabilityID, d.Day, d.StartTime, d.EndTime, d.IsAvailable); err != nil {
			logger.Error("AvailabilityRepository:InsertDays", "day", d.Day, "error", err)
			return err
		}
	}
	return nil
}
