package router

import (
	"github.com/labstack/echo/v4"

	"meetly/core/middleware"
	"meetly/modules/analytics/controller"
)

// AnalyticsRouter registers dashboard routes.
type AnalyticsRouter struct {
	AnalyticsController *controller.AnalyticsController
}

func NewAnalyticsRouter(analyticsController *controller.AnalyticsController) *AnalyticsRouter {
	return &AnalyticsRouter{
		AnalyticsController: analyticsController,
	}
}

// Setup registers analytics routes.
func (r *AnalyticsRouter) Setup(api *echo.Group, mw *middleware.Middleware) {
	analytics := api.Group("/analytics", mw.AuthMiddleware())

	analytics.GET("/dashboard", r.AnalyticsController.GetDashboard)
}
