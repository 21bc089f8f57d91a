package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"meetly/core/controller"
	"meetly/core/errors"
	"meetly/core/middleware"
	"meetly/modules/event/dto"
	"meetly/modules/event/service"
)

// EventController handles event HTTP requests.
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

// CreateEvent handles POST /events/create
func (c *EventController) CreateEvent(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "event created successfully")
}

// GetMyEvents handles GET /events/all
func (c *EventController) GetMyEvents(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.EventService.GetMyEvents(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "events fetched successfully")
}

// GetEvent handles GET /events/:id
func (c *EventController) GetEvent(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), userID, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "event fetched successfully")
}

// UpdateEvent handles PUT /events/:id
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	result, appErr := c.EventService.UpdateEvent(ctx.Request().Context(), userID, eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "event updated successfully")
}

// TogglePrivacy handles PUT /events/toggle-privacy/:id
func (c *EventController) TogglePrivacy(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	result, appErr := c.EventService.TogglePrivacy(ctx.Request().Context(), userID, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "event privacy updated")
}

// DeleteEvent handles DELETE /events/:id
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	if appErr := c.EventService.DeleteEvent(ctx.Request().Context(), userID, eventID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "event deleted successfully")
}

// GetPublicEvents handles GET /events/public/:username
func (c *EventController) GetPublicEvents(ctx echo.Context) error {
	username := ctx.Param("username")
	if username == "" {
		return c.BadRequest(errors.ErrInvalidInput, "username is required")
	}

	result, appErr := c.EventService.GetPublicEvents(ctx.Request().Context(), username)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "events fetched successfully")
}

// GetPublicEvent handles GET /events/public/:username/:slug
func (c *EventController) GetPublicEvent(ctx echo.Context) error {
	username := ctx.Param("username")
	slug := ctx.Param("slug")
	if username == "" || slug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "username and slug are required")
	}

	result, appErr := c.EventService.GetPublicEvent(ctx.Request().Context(), username, slug)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "event fetched successfully")
}
