package analytics

import (
	"github.com/labstack/echo/v4"

	"meetly/core/database"
	"meetly/core/middleware"
	"meetly/modules/analytics/controller"
	"meetly/modules/analytics/repository"
	"meetly/modules/analytics/router"
	"meetly/modules/analytics/service"
)

// Init wires the analytics module and registers its routes.
func Init(api *echo.Group, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewAnalyticsRepository(db)
	svc := service.NewAnalyticsService(repo)
	ctrl := controller.NewAnalyticsController(svc)
	rtr := router.NewAnalyticsRouter(ctrl)

	rtr.Setup(api, mw)
}
