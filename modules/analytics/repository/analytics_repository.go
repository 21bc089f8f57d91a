package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"meetly/core/database"
	"meetly/core/logger"
)

// MeetingTotals breaks a host's meetings down by state.
type MeetingTotals struct {
	Total     int `db:"total"`
	Upcoming  int `db:"upcoming"`
	Past      int `db:"past"`
	Cancelled int `db:"cancelled"`
}

type DayCount struct {
	Day   time.Time `db:"day"`
	Count int       `db:"count"`
}

type EventCount struct {
	EventID uuid.UUID `db:"event_id"`
	Title   string    `db:"title"`
	Count   int       `db:"count"`
}

type GuestCount struct {
	GuestName  string `db:"guest_name"`
	GuestEmail string `db:"guest_email"`
	Count      int    `db:"count"`
}

type AnalyticsRepositoryInterface interface {
	GetMeetingTotals(ctx context.Context, userID uuid.UUID) (*MeetingTotals, error)
	GetMeetingsPerDay(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]DayCount, error)
	GetPopularEvents(ctx context.Context, userID uuid.UUID, limit int) ([]EventCount, error)
	GetTopGuests(ctx context.Context, userID uuid.UUID, limit int) ([]GuestCount, error)
}

type AnalyticsRepository struct {
	DB database.Database
}

func NewAnalyticsRepository(db database.Database) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// GetMeetingTotals counts all meeting states in a single scan using
// filtered aggregates.
func (r *AnalyticsRepository) GetMeetingTotals(ctx context.Context, userID uuid.UUID) (*MeetingTotals, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'SCHEDULED' AND start_time >= NOW()) AS upcoming,
			COUNT(*) FILTER (WHERE status = 'SCHEDULED' AND start_time < NOW()) AS past,
			COUNT(*) FILTER (WHERE status = 'CANCELLED') AS cancelled
		FROM meetings
		WHERE user_id = $1`

	var totals MeetingTotals
	if err := r.DB.GetContext(ctx, &totals, query, userID); err != nil {
		logger.Error("AnalyticsRepository:GetMeetingTotals", "user_id", userID, "error", err)
		return nil, err
	}
	return &totals, nil
}

func (r *AnalyticsRepository) GetMeetingsPerDay(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]DayCount, error) {
	query := `
		SELECT date_trunc('day', start_time) AS day, COUNT(*) AS count
		FROM meetings
		WHERE user_id = $1 AND status = 'SCHEDULED' AND start_time >= $2 AND start_time < $3
		GROUP BY day
		ORDER BY day`

	counts := []DayCount{}
	if err := r.DB.SelectContext(ctx, &counts, query, userID, from, to); err != nil {
		logger.Error("AnalyticsRepository:GetMeetingsPerDay", "user_id", userID, "error", err)
		return nil, err
	}
	return counts, nil
}

func (r *AnalyticsRepository) GetPopularEvents(ctx context.Context, userID uuid.UUID, limit int) ([]EventCount, error) {
	query := `
		SELECT e.id AS event_id, e.title, COUNT(m.id) AS count
		FROM events e
		JOIN meetings m ON m.event_id = e.id AND m.status = 'SCHEDULED'
		WHERE e.user_id = $1
		GROUP BY e.id, e.title
		ORDER BY count DESC, e.title
		LIMIT $2`

	counts := []EventCount{}
	if err := r.DB.SelectContext(ctx, &counts, query, userID, limit); err != nil {
		logger.Error("AnalyticsRepository:GetPopularEvents", "user_id", userID, "error", err)
		return nil, err
	}
	return counts, nil
}

func (r *AnalyticsRepository) GetTopGuests(ctx context.Context, userID uuid.UUID, limit int) ([]GuestCount, error) {
	query := `
		SELECT guest_name, guest_email, COUNT(*) AS count
		FROM meetings
		WHERE user_id = $1 AND status = 'SCHEDULED'
		GROUP BY guest_name, guest_email
		ORDER BY count DESC, guest_email
		LIMIT $2`

	counts := []GuestCount{}
	if err := r.DB.SelectContext(ctx, &counts, query, userID, limit); err != nil {
		logger.Error("AnalyticsRepository:GetTopGuests", "user_id", userID, "error", err)
		return nil, err
	}
	return counts, nil
}
