package controller

import (
	"github.com/labstack/echo/v4"

	"meetly/core/controller"
	"meetly/core/errors"
	"meetly/core/middleware"
	"meetly/modules/integration/service"
)

// IntegrationController handles calendar connection HTTP requests.
type IntegrationController struct {
	controller.BaseController
	IntegrationService service.IntegrationServiceInterface
}

func NewIntegrationController(svc service.IntegrationServiceInterface) *IntegrationController {
	return &IntegrationController{
		BaseController:     controller.NewBaseController(),
		IntegrationService: svc,
	}
}

// Connect handles GET /integration/connect
func (c *IntegrationController) Connect(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.IntegrationService.ConnectURL(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "authorization url created")
}

// Callback handles GET /integration/callback
func (c *IntegrationController) Callback(ctx echo.Context) error {
	state := ctx.QueryParam("state")
	code := ctx.QueryParam("code")

	if appErr := c.IntegrationService.HandleCallback(ctx.Request().Context(), state, code); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "calendar connected successfully")
}

// Check handles GET /integration/check/:provider
func (c *IntegrationController) Check(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.IntegrationService.CheckIntegration(ctx.Request().Context(), userID, ctx.Param("provider"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "connection status fetched")
}

// List handles GET /integration/list
func (c *IntegrationController) List(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.IntegrationService.ListIntegrations(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "connections fetched")
}

// Disconnect handles DELETE /integration/disconnect/:provider
func (c *IntegrationController) Disconnect(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	if appErr := c.IntegrationService.Disconnect(ctx.Request().Context(), userID, ctx.Param("provider")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "calendar disconnected")
}
