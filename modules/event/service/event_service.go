package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"meetly/core/constants"
	"meetly/core/errors"
	"meetly/core/logger"
	"meetly/core/utils"
	authrepo "meetly/modules/auth/repository"
	"meetly/modules/event/dto"
	"meetly/modules/event/entity"
	"meetly/modules/event/repository"
)

// MeetingCounter is the slice of the meeting repository the delete guard
// needs.
type MeetingCounter interface {
	CountScheduledByEventID(ctx context.Context, eventID uuid.UUID) (int, error)
}

// EventService handles event template business logic.
type EventService struct {
	repo     repository.EventRepositoryInterface
	users    authrepo.UserRepositoryInterface
	meetings MeetingCounter
}

// EventServiceInterface defines the service contract.
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, userID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetMyEvents(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, userID, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, userID, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	TogglePrivacy(ctx context.Context, userID, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, userID, eventID uuid.UUID) *errors.AppError
	GetPublicEvents(ctx context.Context, username string) (*dto.PublicEventsResponse, *errors.AppError)
	GetPublicEvent(ctx context.Context, username, slug string) (*dto.PublicEventResponse, *errors.AppError)
}

func NewEventService(repo repository.EventRepositoryInterface, users authrepo.UserRepositoryInterface, meetings MeetingCounter) EventServiceInterface {
	return &EventService{repo: repo, users: users, meetings: meetings}
}

// CreateEvent creates a template with a slug derived from the title. The
// slug is unique per host; a collision gets a random suffix instead of an
// error so hosts can reuse titles.
func (s *EventService) CreateEvent(ctx context.Context, userID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	logger.Info("EventService:CreateEvent:Start", "user_id", userID, "title", req.Title)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "event title is required", nil)
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = constants.DefaultEventDuration
	}
	if duration < 0 {
		return nil, errors.NewAppError(errors.ErrInvalidDuration, "event duration must be positive", nil)
	}

	location := entity.LocationType(strings.ToUpper(req.LocationType))
	if req.LocationType == "" {
		location = entity.LocationGoogleMeet
	}
	if !location.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown location type", nil)
	}

	slug := utils.Slugify(title)
	exists, err := s.repo.SlugExists(ctx, userID, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", err)
	}
	if exists {
		slug = utils.SlugifyUnique(title)
	}

	event := &entity.Event{
		UserID:          userID,
		Title:           title,
		DurationMinutes: duration,
		Slug:            slug,
		IsPrivate:       req.IsPrivate,
		LocationType:    location,
	}
	if req.Description != "" {
		event.Description = &req.Description
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", err)
	}

	logger.Info("EventService:CreateEvent:Success", "event_id", created.ID, "slug", created.Slug)
	return dto.ToEventResponse(created), nil
}

func (s *EventService) GetMyEvents(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load events", err)
	}
	return dto.ToEventResponses(events), nil
}

func (s *EventService) GetEvent(ctx context.Context, userID, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.getOwnedEvent(ctx, userID, eventID)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToEventResponse(event), nil
}

// UpdateEvent edits a template. Existing meetings keep the duration they
// were booked with; only future bookings see the change.
func (s *EventService) UpdateEvent(ctx context.Context, userID, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.getOwnedEvent(ctx, userID, eventID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "event title cannot be empty", nil)
		}
		event.Title = title
	}
	if req.Description != nil {
		if *req.Description == "" {
			event.Description = nil
		} else {
			event.Description = req.Description
		}
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, errors.NewAppError(errors.ErrInvalidDuration, "event duration must be positive", nil)
		}
		event.DurationMinutes = *req.DurationMinutes
	}
	if req.LocationType != nil {
		location := entity.LocationType(strings.ToUpper(*req.LocationType))
		if !location.Valid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown location type", nil)
		}
		event.LocationType = location
	}

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update event", err)
	}
	if updated == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	logger.Info("EventService:UpdateEvent:Success", "event_id", eventID)
	return dto.ToEventResponse(updated), nil
}

func (s *EventService) TogglePrivacy(ctx context.Context, userID, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	if _, appErr := s.getOwnedEvent(ctx, userID, eventID); appErr != nil {
		return nil, appErr
	}

	event, err := s.repo.TogglePrivacy(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	logger.Info("EventService:TogglePrivacy:Success", "event_id", eventID, "is_private", event.IsPrivate)
	return dto.ToEventResponse(event), nil
}

// DeleteEvent removes a template. Deletion is refused while scheduled
// meetings reference the event, so booked guests never lose the record of
// what they booked.
func (s *EventService) DeleteEvent(ctx context.Context, userID, eventID uuid.UUID) *errors.AppError {
	if _, appErr := s.getOwnedEvent(ctx, userID, eventID); appErr != nil {
		return appErr
	}

	count, err := s.meetings.CountScheduledByEventID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete event", err)
	}
	if count > 0 {
		return errors.NewAppError(errors.ErrEventHasMeetings, "event has scheduled meetings and cannot be deleted", nil)
	}

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete event", err)
	}

	logger.Info("EventService:DeleteEvent:Success", "event_id", eventID)
	return nil
}

// GetPublicEvents lists a host's public templates for their booking page.
func (s *EventService) GetPublicEvents(ctx context.Context, username string) (*dto.PublicEventsResponse, *errors.AppError) {
	host, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load host", err)
	}
	if host == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	events, err := s.repo.ListPublicByUser(ctx, host.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load events", err)
	}

	return &dto.PublicEventsResponse{
		HostName: host.Name,
		Username: host.Username,
		ImageURL: host.ImageURL,
		Events:   dto.ToEventResponses(events),
	}, nil
}

// GetPublicEvent serves one template on a host's booking page. Private
// events answer not-found so the public API never confirms the slug exists.
func (s *EventService) GetPublicEvent(ctx context.Context, username, slug string) (*dto.PublicEventResponse, *errors.AppError) {
	host, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load host", err)
	}
	if host == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	event, err := s.repo.GetBySlug(ctx, host.ID, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", err)
	}
	if event == nil || event.IsPrivate {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	return &dto.PublicEventResponse{
		HostName: host.Name,
		Username: host.Username,
		Event:    *dto.ToEventResponse(event),
	}, nil
}

func (s *EventService) getOwnedEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	if event.UserID != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "event belongs to another user", nil)
	}
	return event, nil
}
