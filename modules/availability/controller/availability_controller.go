package controller

import (
	"github.com/labstack/echo/v4"

	"meetly/core/controller"
	"meetly/core/errors"
	"meetly/core/middleware"
	"meetly/modules/availability/dto"
	"meetly/modules/availability/service"
)

// AvailabilityController handles availability HTTP requests.
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

// GetMyAvailability handles GET /availability/me
func (c *AvailabilityController) GetMyAvailability(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.AvailabilityService.GetMyAvailability(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "availability fetched successfully")
}

// UpdateAvailability handles PUT /availability/update
func (c *AvailabilityController) UpdateAvailability(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.UpdateAvailabilityRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	result, appErr := c.AvailabilityService.UpdateAvailability(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "availability updated successfully")
}

// GetPublicEventSlots handles GET /availability/public/:username/:slug
func (c *AvailabilityController) GetPublicEventSlots(ctx echo.Context) error {
	username := ctx.Param("username")
	slug := ctx.Param("slug")
	if username == "" || slug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "username and event slug are required")
	}

	result, appErr := c.AvailabilityService.GetPublicEventSlots(
		ctx.Request().Context(),
		username,
		slug,
		ctx.QueryParam("start_date"),
		ctx.QueryParam("end_date"),
		ctx.QueryParam("timezone"),
	)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "available slots fetched successfully")
}
