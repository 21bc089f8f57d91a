package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"meetly/core/errors"
	"meetly/core/logger"
	"meetly/core/worker"
	availentity "meetly/modules/availability/entity"
	availservice "meetly/modules/availability/service"
	evententity "meetly/modules/event/entity"
	eventrepo "meetly/modules/event/repository"
	"meetly/modules/meeting/dto"
	"meetly/modules/meeting/entity"
	"meetly/modules/meeting/repository"
)

// lockPadding widens the row lock window around a requested slot so any
// meeting on the same host-timezone day is covered regardless of offset.
const lockPadding = 24 * time.Hour

// ChangeSignal broadcasts that a host's meeting list changed, so other
// clients can refresh their cached slot listings. Best effort by
// contract, implementations log their own failures.
type ChangeSignal interface {
	PublishMeetingsChanged(ctx context.Context, userID string)
}

// TaskQueue enqueues the post-booking background work.
type TaskQueue interface {
	EnqueueCalendarSync(ctx context.Context, meetingID uuid.UUID) error
	EnqueueNotification(ctx context.Context, p worker.NotificationPayload) error
}

// SlotSource supplies the host's slot rules and the engine that validates
// a requested slot against them.
type SlotSource interface {
	QueryForHost(ctx context.Context, hostID uuid.UUID, durationMinutes int, rangeStart, rangeEnd time.Time, displayTimezone string) (availservice.SlotQuery, *errors.AppError)
	Engine() *availservice.SlotEngine
}

// MeetingService handles guest bookings and the host's meeting lifecycle.
type MeetingService struct {
	repo         repository.MeetingRepositoryInterface
	events       eventrepo.EventRepositoryInterface
	availability SlotSource
	signal       ChangeSignal
	tasks        TaskQueue
}

// MeetingServiceInterface defines the service contract.
type MeetingServiceInterface interface {
	CreateBooking(ctx context.Context, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	GetMyMeetings(ctx context.Context, userID uuid.UUID, filter string) ([]dto.MeetingResponse, *errors.AppError)
	CancelMeeting(ctx context.Context, userID, meetingID uuid.UUID) (*dto.MeetingResponse, *errors.AppError)
	RescheduleMeeting(ctx context.Context, userID, meetingID uuid.UUID, req *dto.RescheduleMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
}

func NewMeetingService(
	repo repository.MeetingRepositoryInterface,
	events eventrepo.EventRepositoryInterface,
	availability SlotSource,
	signal ChangeSignal,
	tasks TaskQueue,
) MeetingServiceInterface {
	return &MeetingService{
		repo:         repo,
		events:       events,
		availability: availability,
		signal:       signal,
		tasks:        tasks,
	}
}

// CreateBooking books a slot for a guest. Slot validation runs inside the
// repository transaction while the host's meetings are row locked, so two
// guests racing for the same slot cannot both pass. The end time is the
// event's current duration snapshotted onto the meeting.
func (s *MeetingService) CreateBooking(ctx context.Context, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	logger.Info("MeetingService:CreateBooking:Start", "event_id", req.EventID, "start_time", req.StartTime)

	if appErr := validateGuest(req); appErr != nil {
		return nil, appErr
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid event id", err)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", err)
	}
	// Private events are not bookable and not distinguishable from
	// missing ones.
	if event == nil || event.IsPrivate {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	start := req.StartTime.UTC()
	end := start.Add(time.Duration(event.DurationMinutes) * time.Minute)

	q, appErr := s.availability.QueryForHost(ctx, event.UserID, event.DurationMinutes, start, start, "")
	if appErr != nil {
		return nil, appErr
	}

	meeting := &entity.Meeting{
		EventID:    event.ID,
		UserID:     event.UserID,
		GuestName:  strings.TrimSpace(req.GuestName),
		GuestEmail: strings.TrimSpace(req.GuestEmail),
		StartTime:  start,
		EndTime:    end,
	}
	if req.AdditionalInfo != "" {
		meeting.AdditionalInfo = &req.AdditionalInfo
	}

	lockWindow := availentity.TimeRange{Start: start.Add(-lockPadding), End: end.Add(lockPadding)}
	engine := s.availability.Engine()

	created, appErr := s.repo.CreateWithConflictCheck(ctx, meeting, lockWindow, func(busy []availentity.TimeRange) *errors.AppError {
		locked := q
		locked.Busy = busy
		_, validateErr := engine.ValidateSlot(locked, start)
		return validateErr
	})
	if appErr != nil {
		return nil, appErr
	}

	s.afterBookingChange(ctx, created, event, entity.NotifyBooking, "New booking", created.GuestName+" booked "+event.Title)

	logger.Info("MeetingService:CreateBooking:Success", "meeting_id", created.ID, "host_id", created.UserID)
	return dto.ToMeetingResponse(created), nil
}

func (s *MeetingService) GetMyMeetings(ctx context.Context, userID uuid.UUID, filter string) ([]dto.MeetingResponse, *errors.AppError) {
	f := entity.MeetingFilter(strings.ToUpper(filter))
	if filter == "" {
		f = entity.FilterUpcoming
	}
	if !f.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "filter must be one of UPCOMING, PAST, CANCELLED, ALL", nil)
	}

	meetings, err := s.repo.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load meetings", err)
	}
	return dto.ToMeetingResponses(meetings), nil
}

// CancelMeeting marks a scheduled meeting cancelled. Cancelled is
// terminal: the slot opens up again and the meeting only remains visible
// under the CANCELLED filter.
func (s *MeetingService) CancelMeeting(ctx context.Context, userID, meetingID uuid.UUID) (*dto.MeetingResponse, *errors.AppError) {
	meeting, appErr := s.getOwnedScheduledMeeting(ctx, userID, meetingID)
	if appErr != nil {
		return nil, appErr
	}

	if err := s.repo.Cancel(ctx, meetingID); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to cancel meeting", err)
	}
	meeting.Status = entity.StatusCancelled

	if s.signal != nil {
		s.signal.PublishMeetingsChanged(ctx, meeting.UserID.String())
	}
	s.notify(ctx, meeting, entity.NotifyCancelled, "Meeting cancelled", "Meeting with "+meeting.GuestName+" was cancelled")

	logger.Info("MeetingService:CancelMeeting:Success", "meeting_id", meetingID)
	return dto.ToMeetingResponse(meeting), nil
}

// RescheduleMeeting moves a scheduled meeting to a new slot. The meeting
// keeps its booked length: the event template may have changed since, but
// the guest agreed to a specific duration.
func (s *MeetingService) RescheduleMeeting(ctx context.Context, userID, meetingID uuid.UUID, req *dto.RescheduleMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	meeting, appErr := s.getOwnedScheduledMeeting(ctx, userID, meetingID)
	if appErr != nil {
		return nil, appErr
	}

	length := meeting.EndTime.Sub(meeting.StartTime)
	start := req.StartTime.UTC()
	end := start.Add(length)
	if req.EndTime != nil && !req.EndTime.UTC().Equal(end) {
		return nil, errors.NewAppError(errors.ErrInvalidDuration, "rescheduling cannot change the meeting length", nil)
	}

	durationMinutes := int(length / time.Minute)
	q, appErr := s.availability.QueryForHost(ctx, meeting.UserID, durationMinutes, start, start, "")
	if appErr != nil {
		return nil, appErr
	}

	slot := availentity.TimeRange{Start: start, End: end}
	lockWindow := availentity.TimeRange{Start: start.Add(-lockPadding), End: end.Add(lockPadding)}
	engine := s.availability.Engine()

	updated, appErr := s.repo.RescheduleWithConflictCheck(ctx, meetingID, slot, lockWindow, func(busy []availentity.TimeRange) *errors.AppError {
		locked := q
		locked.Busy = busy
		_, validateErr := engine.ValidateSlot(locked, start)
		return validateErr
	})
	if appErr != nil {
		return nil, appErr
	}

	if s.signal != nil {
		s.signal.PublishMeetingsChanged(ctx, updated.UserID.String())
	}
	s.notify(ctx, updated, entity.NotifyRescheduled, "Meeting rescheduled", "Meeting with "+updated.GuestName+" was moved")

	logger.Info("MeetingService:RescheduleMeeting:Success", "meeting_id", meetingID, "start_time", start)
	return dto.ToMeetingResponse(updated), nil
}

func (s *MeetingService) getOwnedScheduledMeeting(ctx context.Context, userID, meetingID uuid.UUID) (*entity.Meeting, *errors.AppError) {
	meeting, err := s.repo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
	}
	if meeting.UserID != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "meeting belongs to another user", nil)
	}
	if meeting.Status != entity.StatusScheduled {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "meeting is already cancelled", nil)
	}
	return meeting, nil
}

// afterBookingChange runs the best-effort side effects of a successful
// booking. Failures are logged and never unwind the committed meeting.
func (s *MeetingService) afterBookingChange(ctx context.Context, meeting *entity.Meeting, event *evententity.Event, typ, title, message string) {
	if s.signal != nil {
		s.signal.PublishMeetingsChanged(ctx, meeting.UserID.String())
	}
	if s.tasks != nil && event.LocationType == evententity.LocationGoogleMeet {
		if err := s.tasks.EnqueueCalendarSync(ctx, meeting.ID); err != nil {
			logger.Warn("MeetingService:EnqueueCalendarSync", "meeting_id", meeting.ID, "error", err)
		}
	}
	s.notify(ctx, meeting, typ, title, message)
}

func (s *MeetingService) notify(ctx context.Context, meeting *entity.Meeting, typ, title, message string) {
	if s.tasks == nil {
		return
	}
	err := s.tasks.EnqueueNotification(ctx, worker.NotificationPayload{
		UserID:  meeting.UserID,
		Title:   title,
		Message: message,
		Type:    typ,
	})
	if err != nil {
		logger.Warn("MeetingService:EnqueueNotification", "meeting_id", meeting.ID, "error", err)
	}
}

func validateGuest(req *dto.CreateMeetingRequest) *errors.AppError {
	if strings.TrimSpace(req.GuestName) == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "guest name is required", nil)
	}
	if _, err := mail.ParseAddress(req.GuestEmail); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "a valid guest email is required", err)
	}
	if req.StartTime.IsZero() {
		return errors.NewAppError(errors.ErrInvalidInput, "start time is required", nil)
	}
	return nil
}
