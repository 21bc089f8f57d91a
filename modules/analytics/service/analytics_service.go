package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"meetly/core/errors"
	"meetly/core/logger"
	"meetly/modules/analytics/dto"
	"meetly/modules/analytics/repository"
)

const (
	// Dashboard window and list sizes.
	perDayWindowDays = 30
	topListLimit     = 5

	dateLayout = "2006-01-02"
)

type AnalyticsServiceInterface interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, *errors.AppError)
}

type AnalyticsService struct {
	repo repository.AnalyticsRepositoryInterface
	now  func() time.Time
}

func NewAnalyticsService(repo repository.AnalyticsRepositoryInterface) *AnalyticsService {
	return &AnalyticsService{repo: repo, now: time.Now}
}

// GetDashboard assembles the host's scheduling overview: totals by state,
// booked meetings per day over the last month, the most booked event types
// and the most frequent guests.
func (s *AnalyticsService) GetDashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, *errors.AppError) {
	logger.Info("AnalyticsService:GetDashboard:Start", "user_id", userID)

	totals, err := s.repo.GetMeetingTotals(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load meeting totals", err)
	}

	to := s.now().UTC()
	from := to.AddDate(0, 0, -perDayWindowDays)
	perDay, err := s.repo.GetMeetingsPerDay(ctx, userID, from, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load meetings per day", err)
	}

	popular, err := s.repo.GetPopularEvents(ctx, userID, topListLimit)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load popular events", err)
	}

	guests, err := s.repo.GetTopGuests(ctx, userID, topListLimit)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load top guests", err)
	}

	resp := &dto.DashboardResponse{
		Totals: dto.MeetingTotalsDTO{
			Total:     totals.Total,
			Upcoming:  totals.Upcoming,
			Past:      totals.Past,
			Cancelled: totals.Cancelled,
		},
		MeetingsPerDay: make([]dto.DayCountDTO, 0, len(perDay)),
		PopularEvents:  make([]dto.EventCountDTO, 0, len(popular)),
		TopGuests:      make([]dto.GuestCountDTO, 0, len(guests)),
	}
	for _, d := range perDay {
		resp.MeetingsPerDay = append(resp.MeetingsPerDay, dto.DayCountDTO{
			Date:  d.Day.UTC().Format(dateLayout),
			Count: d.Count,
		})
	}
	for _, e := range popular {
		resp.PopularEvents = append(resp.PopularEvents, dto.EventCountDTO{
			EventID: e.EventID,
			Title:   e.Title,
			Count:   e.Count,
		})
	}
	for _, g := range guests {
		resp.TopGuests = append(resp.TopGuests, dto.GuestCountDTO{
			GuestName:  g.GuestName,
			GuestEmail: g.GuestEmail,
			Count:      g.Count,
		})
	}
	return resp, nil
}
