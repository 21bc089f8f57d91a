package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"meetly/core/controller"
	"meetly/core/errors"
	"meetly/core/middleware"
	"meetly/modules/meeting/dto"
	"meetly/modules/meeting/service"
)

// MeetingController handles meeting HTTP requests.
type MeetingController struct {
	controller.BaseController
	MeetingService service.MeetingServiceInterface
}

func NewMeetingController(svc service.MeetingServiceInterface) *MeetingController {
	return &MeetingController{
		BaseController: controller.NewBaseController(),
		MeetingService: svc,
	}
}

// CreateBooking handles POST /meeting/public/create. This is the guest
// booking endpoint and carries no authentication.
func (c *MeetingController) CreateBooking(ctx echo.Context) error {
	var req dto.CreateMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	result, appErr := c.MeetingService.CreateBooking(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "meeting booked successfully")
}

// GetMyMeetings handles GET /meeting/user/all?filter=
func (c *MeetingController) GetMyMeetings(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.MeetingService.GetMyMeetings(ctx.Request().Context(), userID, ctx.QueryParam("filter"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "meetings fetched successfully")
}

// CancelMeeting handles PUT /meeting/cancel/:id
func (c *MeetingController) CancelMeeting(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid meeting id")
	}

	result, appErr := c.MeetingService.CancelMeeting(ctx.Request().Context(), userID, meetingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "meeting cancelled successfully")
}

// RescheduleMeeting handles PUT /meeting/reschedule/:id
func (c *MeetingController) RescheduleMeeting(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid meeting id")
	}

	var req dto.RescheduleMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	result, appErr := c.MeetingService.RescheduleMeeting(ctx.Request().Context(), userID, meetingID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "meeting rescheduled successfully")
}
