package controller

import (
	"github.com/labstack/echo/v4"

	"meetly/core/controller"
	"meetly/core/errors"
	"meetly/core/middleware"
	"meetly/modules/analytics/service"
)

// AnalyticsController handles dashboard HTTP requests.
type AnalyticsController struct {
	controller.BaseController
	AnalyticsService service.AnalyticsServiceInterface
}

func NewAnalyticsController(svc service.AnalyticsServiceInterface) *AnalyticsController {
	return &AnalyticsController{
		BaseController:   controller.NewBaseController(),
		AnalyticsService: svc,
	}
}

// GetDashboard handles GET /analytics/dashboard
func (c *AnalyticsController) GetDashboard(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.AnalyticsService.GetDashboard(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "dashboard fetched")
}
