package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"meetly/core/errors"
	"meetly/core/logger"
	authrepo "meetly/modules/auth/repository"
	"meetly/modules/availability/dto"
	"meetly/modules/availability/entity"
	"meetly/modules/availability/repository"
	eventrepo "meetly/modules/event/repository"
)

const dateLayout = "2006-01-02"

// BusyLister is the read-side slice of the meeting repository slot
// listings need.
type BusyLister interface {
	ListBusyRanges(ctx context.Context, userID uuid.UUID, from, to time.Time, exclude *uuid.UUID) ([]entity.TimeRange, error)
}

// AvailabilityService manages weekly availability rules and produces the
// guest-facing slot listings.
type AvailabilityService struct {
	repo     repository.AvailabilityRepositoryInterface
	users    authrepo.UserRepositoryInterface
	events   eventrepo.EventRepositoryInterface
	meetings BusyLister
	engine   *SlotEngine
}

// AvailabilityServiceInterface defines the service contract.
type AvailabilityServiceInterface interface {
	GetMyAvailability(ctx context.Context, userID uuid.UUID) (*dto.AvailabilityResponse, *errors.AppError)
	UpdateAvailability(ctx context.Context, userID uuid.UUID, req *dto.UpdateAvailabilityRequest) (*dto.AvailabilityResponse, *errors.AppError)
	GetPublicEventSlots(ctx context.Context, username, slug, startDate, endDate, timezone string) (*dto.PublicSlotsResponse, *errors.AppError)
	QueryForHost(ctx context.Context, hostID uuid.UUID, durationMinutes int, rangeStart, rangeEnd time.Time, displayTimezone string) (SlotQuery, *errors.AppError)
	Engine() *SlotEngine
}

func NewAvailabilityService(
	repo repository.AvailabilityRepositoryInterface,
	users authrepo.UserRepositoryInterface,
	events eventrepo.EventRepositoryInterface,
	meetings BusyLister,
	engine *SlotEngine,
) AvailabilityServiceInterface {
	return &AvailabilityService{
		repo:     repo,
		users:    users,
		events:   events,
		meetings: meetings,
		engine:   engine,
	}
}

// Engine exposes the slot engine so the booking path can re-validate a
// requested slot with the same rules that produced the listing.
func (s *AvailabilityService) Engine() *SlotEngine {
	return s.engine
}

func (s *AvailabilityService) GetMyAvailability(ctx context.Context, userID uuid.UUID) (*dto.AvailabilityResponse, *errors.AppError) {
	week, err := s.repo.GetWeeklyByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load availability", err)
	}
	if week == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "availability not configured", nil)
	}
	return dto.ToAvailabilityResponse(week), nil
}

// UpdateAvailability replaces the user's week wholesale after validating
// every rule. Partial-day updates are deliberately unsupported: the client
// always sends the full week, so the stored state is never a mix of old
// and new rules.
func (s *AvailabilityService) UpdateAvailability(ctx context.Context, userID uuid.UUID, req *dto.UpdateAvailabilityRequest) (*dto.AvailabilityResponse, *errors.AppError) {
	logger.Info("AvailabilityService:UpdateAvailability:Start", "user_id", userID)

	if appErr := validateWeek(req); appErr != nil {
		return nil, appErr
	}

	days := make([]entity.DayAvailability, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, entity.DayAvailability{
			Day:         d.Day,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			IsAvailable: d.IsAvailable,
		})
	}

	if err := s.repo.ReplaceWeek(ctx, userID, req.TimeGap, days); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update availability", err)
	}

	logger.Info("AvailabilityService:UpdateAvailability:Success", "user_id", userID, "time_gap", req.TimeGap)
	return s.GetMyAvailability(ctx, userID)
}

// validateWeek enforces the closed representation the slot engine relies
// on: a positive gap that divides the day evenly, exactly one rule per
// weekday, parseable HH:MM bounds and start <= end.
func validateWeek(req *dto.UpdateAvailabilityRequest) *errors.AppError {
	if req.TimeGap <= 0 || 1440%req.TimeGap != 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "time gap must be a positive divisor of 1440 minutes", nil)
	}
	if len(req.Days) != len(entity.WeekDays) {
		return errors.NewAppError(errors.ErrInvalidInput, "availability must cover all seven days", nil)
	}

	seen := make(map[entity.DayOfWeek]bool, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Day] {
			return errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("duplicate rule for %s", d.Day), nil)
		}
		seen[d.Day] = true

		startH, startM, err := parseHHMM(d.StartTime)
		if err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("invalid start time for %s", d.Day), err)
		}
		endH, endM, err := parseHHMM(d.EndTime)
		if err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("invalid end time for %s", d.Day), err)
		}
		if d.IsAvailable && (endH*60+endM) < (startH*60+startM) {
			return errors.NewAppError(errors.ErrInvalidRange, fmt.Sprintf("%s ends before it starts", d.Day), nil)
		}
	}
	return nil
}

// QueryForHost assembles a slot query from the host's stored availability
// and timezone. Busy is left empty: listings fill it from an unlocked
// read, the booking path fills it from locked rows.
func (s *AvailabilityService) QueryForHost(ctx context.Context, hostID uuid.UUID, durationMinutes int, rangeStart, rangeEnd time.Time, displayTimezone string) (SlotQuery, *errors.AppError) {
	week, err := s.repo.GetWeeklyByUserID(ctx, hostID)
	if err != nil {
		return SlotQuery{}, errors.NewAppError(errors.ErrInternalServer, "failed to load availability", err)
	}
	if week == nil {
		return SlotQuery{}, errors.NewAppError(errors.ErrNotFound, "host has no availability configured", nil)
	}

	host, err := s.users.GetByID(ctx, hostID)
	if err != nil {
		return SlotQuery{}, errors.NewAppError(errors.ErrInternalServer, "failed to load host", err)
	}
	if host == nil {
		return SlotQuery{}, errors.NewAppError(errors.ErrNotFound, "host not found", nil)
	}

	return SlotQuery{
		Week:            week,
		DurationMinutes: durationMinutes,
		RangeStart:      rangeStart,
		RangeEnd:        rangeEnd,
		HostTimezone:    host.Timezone,
		DisplayTimezone: displayTimezone,
	}, nil
}

// GetPublicEventSlots is the guest booking page: it resolves the host by
// username and the event by slug, then lists open slots for the requested
// date range. Private events are indistinguishable from missing ones.
func (s *AvailabilityService) GetPublicEventSlots(ctx context.Context, username, slug, startDate, endDate, timezone string) (*dto.PublicSlotsResponse, *errors.AppError) {
	host, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load host", err)
	}
	if host == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	event, err := s.events.GetBySlug(ctx, host.ID, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", err)
	}
	if event == nil || event.IsPrivate {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	rangeStart, rangeEnd, appErr := resolveDateRange(startDate, endDate, s.engine.Now())
	if appErr != nil {
		return nil, appErr
	}

	q, appErr := s.QueryForHost(ctx, host.ID, event.DurationMinutes, rangeStart, rangeEnd, timezone)
	if appErr != nil {
		return nil, appErr
	}

	// Pad the busy window by a day on each side so timezone offsets never
	// push a relevant meeting outside the read.
	busy, err := s.meetings.ListBusyRanges(ctx,
		host.ID, rangeStart.AddDate(0, 0, -1), rangeEnd.AddDate(0, 0, 2), nil)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load host schedule", err)
	}
	q.Busy = busy

	slots, appErr := s.engine.ListAvailableSlots(q)
	if appErr != nil {
		return nil, appErr
	}

	displayTZ := timezone
	if displayTZ == "" {
		displayTZ = host.Timezone
	}

	return &dto.PublicSlotsResponse{
		EventID:         event.ID.String(),
		Title:           event.Title,
		Description:     event.Description,
		DurationMinutes: event.DurationMinutes,
		LocationType:    string(event.LocationType),
		HostName:        host.Name,
		Timezone:        displayTZ,
		Days:            groupSlotsByDay(slots),
	}, nil
}

func resolveDateRange(startDate, endDate string, now time.Time) (time.Time, time.Time, *errors.AppError) {
	start := now
	end := now.AddDate(0, 0, 6)

	var err error
	if startDate != "" {
		start, err = time.Parse(dateLayout, startDate)
		if err != nil {
			return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidRange, fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", startDate), err)
		}
		end = start.AddDate(0, 0, 6)
	}
	if endDate != "" {
		end, err = time.Parse(dateLayout, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidRange, fmt.Sprintf("invalid end date %q, expected YYYY-MM-DD", endDate), err)
		}
	}
	return start, end, nil
}

func groupSlotsByDay(slots []entity.Slot) []dto.DaySlots {
	var days []dto.DaySlots
	for _, slot := range slots {
		date := slot.Start.Format(dateLayout)
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, dto.DaySlots{
				Date: date,
				Day:  string(entity.DayOfWeekFromWeekday(slot.Start.Weekday())),
			})
		}
		last := &days[len(days)-1]
		last.Slots = append(last.Slots, dto.SlotDTO{StartTime: slot.Start, EndTime: slot.End})
	}
	return days
}
