package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"meetly/core/database"
	"meetly/core/errors"
	"meetly/core/logger"
	availentity "meetly/modules/availability/entity"
	"meetly/modules/meeting/entity"
)

const meetingColumns = `id, event_id, user_id, guest_name, guest_email, additional_info,
	       start_time, end_time, status, meet_link, calendar_event_id, created_at, updated_at`

// pgExclusionViolation is raised by the meetings no-overlap exclusion
// constraint. It is the database-level backstop behind the row locking
// below: even if two transactions slip past the application check, at most
// one insert commits.
const pgExclusionViolation = "23P01"

// ConflictValidator re-checks a requested slot against the host's busy
// intervals while those rows are locked. Returning a non-nil error aborts
// the booking transaction.
type ConflictValidator func(busy []availentity.TimeRange) *errors.AppError

// MeetingRepository persists booked meetings.
type MeetingRepository struct {
	DB database.Database
}

func NewMeetingRepository(db database.Database) *MeetingRepository {
	return &MeetingRepository{DB: db}
}

// MeetingRepositoryInterface defines the repository contract.
type MeetingRepositoryInterface interface {
	CreateWithConflictCheck(ctx context.Context, meeting *entity.Meeting, lockWindow availentity.TimeRange, validate ConflictValidator) (*entity.Meeting, *errors.AppError)
	RescheduleWithConflictCheck(ctx context.Context, meetingID uuid.UUID, slot availentity.TimeRange, lockWindow availentity.TimeRange, validate ConflictValidator) (*entity.Meeting, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter entity.MeetingFilter) ([]entity.Meeting, error)
	ListBusyRanges(ctx context.Context, userID uuid.UUID, from, to time.Time, exclude *uuid.UUID) ([]availentity.TimeRange, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	CountScheduledByEventID(ctx context.Context, eventID uuid.UUID) (int, error)
	UpdateMeetLink(ctx context.Context, id uuid.UUID, meetLink, calendarEventID string) error
}

// CreateWithConflictCheck inserts a meeting after re-validating the slot
// inside a transaction. It locks the host's scheduled meetings around the
// requested window with FOR UPDATE so a concurrent booking for the same
// host serializes behind this one, then hands the locked busy set to the
// validator. Only one of two racing guests can see the slot as free.
func (r *MeetingRepository) CreateWithConflictCheck(ctx context.Context, meeting *entity.Meeting, lockWindow availentity.TimeRange, validate ConflictValidator) (*entity.Meeting, *errors.AppError) {
	tx, err := r.DB.BeginTxx(ctx)
	if err != nil {
		logger.Error("MeetingRepository:CreateWithConflictCheck:Begin", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to start booking transaction", err)
	}
	defer tx.Rollback()

	busy, appErr := lockBusyRanges(ctx, tx, meeting.UserID, lockWindow, nil)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := validate(busy); appErr != nil {
		return nil, appErr
	}

	query := `
		INSERT INTO meetings (event_id, user_id, guest_name, guest_email, additional_info, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + meetingColumns

	var created entity.Meeting
	err = tx.GetContext(ctx, &created, query,
		meeting.EventID, meeting.UserID, meeting.GuestName, meeting.GuestEmail,
		meeting.AdditionalInfo, meeting.StartTime, meeting.EndTime, entity.StatusScheduled)
	if err != nil {
		return nil, mapBookingError("MeetingRepository:CreateWithConflictCheck", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapBookingError("MeetingRepository:CreateWithConflictCheck:Commit", err)
	}

	return &created, nil
}

// RescheduleWithConflictCheck moves a scheduled meeting to a new slot with
// the same locking discipline as CreateWithConflictCheck. The meeting
// being moved is excluded from the busy set so it never conflicts with
// itself.
func (r *MeetingRepository) RescheduleWithConflictCheck(ctx context.Context, meetingID uuid.UUID, slot availentity.TimeRange, lockWindow availentity.TimeRange, validate ConflictValidator) (*entity.Meeting, *errors.AppError) {
	tx, err := r.DB.BeginTxx(ctx)
	if err != nil {
		logger.Error("MeetingRepository:RescheduleWithConflictCheck:Begin", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to start booking transaction", err)
	}
	defer tx.Rollback()

	var hostID uuid.UUID
	if err := tx.GetContext(ctx, &hostID, `SELECT user_id FROM meetings WHERE id = $1 FOR UPDATE`, meetingID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
		}
		logger.Error("MeetingRepository:RescheduleWithConflictCheck:Lock", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to lock meeting", err)
	}

	busy, appErr := lockBusyRanges(ctx, tx, hostID, lockWindow, &meetingID)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := validate(busy); appErr != nil {
		return nil, appErr
	}

	query := `
		UPDATE meetings
		SET start_time = $2, end_time = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + meetingColumns

	var updated entity.Meeting
	err = tx.GetContext(ctx, &updated, query, meetingID, slot.Start, slot.End)
	if err != nil {
		return nil, mapBookingError("MeetingRepository:RescheduleWithConflictCheck", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapBookingError("MeetingRepository:RescheduleWithConflictCheck:Commit", err)
	}

	return &updated, nil
}

type txQuerier interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func lockBusyRanges(ctx context.Context, tx txQuerier, hostID uuid.UUID, window availentity.TimeRange, exclude *uuid.UUID) ([]availentity.TimeRange, *errors.AppError) {
	query := `
		SELECT start_time, end_time FROM meetings
		WHERE user_id = $1 AND status = $2
		  AND start_time < $3 AND end_time > $4
	`
	args := []any{hostID, entity.StatusScheduled, window.End, window.Start}
	if exclude != nil {
		query += ` AND id <> $5`
		args = append(args, *exclude)
	}
	query += ` ORDER BY start_time FOR UPDATE`

	var busy []availentity.TimeRange
	if err := tx.SelectContext(ctx, &busy, query, args...); err != nil {
		logger.Error("MeetingRepository:LockBusyRanges", "host_id", hostID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load host schedule", err)
	}
	return busy, nil
}

func mapBookingError(op string, err error) *errors.AppError {
	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pgExclusionViolation {
		logger.Warn(op+":ExclusionViolation", "error", err)
		return errors.NewAppError(errors.ErrSlotUnavailable, "this time is no longer available, please choose another slot", err)
	}
	logger.Error(op, "error", err)
	return errors.NewAppError(errors.ErrInternalServer, "failed to save meeting", err)
}

func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`

	var meeting entity.Meeting
	err := r.DB.GetContext(ctx, &meeting, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetByID", "error", err)
		return nil, err
	}
	return &meeting, nil
}

func (r *MeetingRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter entity.MeetingFilter) ([]entity.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE user_id = $1`
	args := []any{userID}

	switch filter {
	case entity.FilterUpcoming:
		query += ` AND status = $2 AND start_time >= NOW()`
		args = append(args, entity.StatusScheduled)
	case entity.FilterPast:
		query += ` AND status = $2 AND start_time < NOW()`
		args = append(args, entity.StatusScheduled)
	case entity.FilterCancelled:
		query += ` AND status = $2`
		args = append(args, entity.StatusCancelled)
	}
	query += ` ORDER BY start_time ASC`

	var meetings []entity.Meeting
	if err := r.DB.SelectContext(ctx, &meetings, query, args...); err != nil {
		logger.Error("MeetingRepository:ListByUser", "user_id", userID, "error", err)
		return nil, err
	}
	return meetings, nil
}

// ListBusyRanges returns the host's scheduled intervals overlapping
// [from, to). This is the unlocked read path used for slot listings.
func (r *MeetingRepository) ListBusyRanges(ctx context.Context, userID uuid.UUID, from, to time.Time, exclude *uuid.UUID) ([]availentity.TimeRange, error) {
	query := `
		SELECT start_time, end_time FROM meetings
		WHERE user_id = $1 AND status = $2
		  AND start_time < $3 AND end_time > $4
	`
	args := []any{userID, entity.StatusScheduled, to, from}
	if exclude != nil {
		query += ` AND id <> $5`
		args = append(args, *exclude)
	}
	query += ` ORDER BY start_time`

	var busy []availentity.TimeRange
	if err := r.DB.SelectContext(ctx, &busy, query, args...); err != nil {
		logger.Error("MeetingRepository:ListBusyRanges", "user_id", userID, "error", err)
		return nil, err
	}
	return busy, nil
}

func (r *MeetingRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE meetings SET status = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, entity.StatusCancelled); err != nil {
		logger.Error("MeetingRepository:Cancel", "meeting_id", id, "error", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) CountScheduledByEventID(ctx context.Context, eventID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM meetings WHERE event_id = $1 AND status = $2`

	var count int
	if err := r.DB.GetContext(ctx, &count, query, eventID, entity.StatusScheduled); err != nil {
		logger.Error("MeetingRepository:CountScheduledByEventID", "event_id", eventID, "error", err)
		return 0, err
	}
	return count, nil
}

// UpdateMeetLink stores the conferencing link produced by the calendar
// sync worker.
func (r *MeetingRepository) UpdateMeetLink(ctx context.Context, id uuid.UUID, meetLink, calendarEventID string) error {
	query := `UPDATE meetings SET meet_link = $2, calendar_event_id = $3, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, meetLink, calendarEventID); err != nil {
		logger.Error("MeetingRepository:UpdateMeetLink", "meeting_id", id, "error", err)
		return err
	}
	return nil
}
