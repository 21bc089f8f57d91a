package integration

import (
	"github.com/labstack/echo/v4"

	"meetly/core/cache"
	"meetly/core/constants"
	"meetly/core/database"
	"meetly/core/middleware"
	"meetly/core/worker"
	eventrepo "meetly/modules/event/repository"
	"meetly/modules/integration/controller"
	"meetly/modules/integration/repository"
	"meetly/modules/integration/router"
	"meetly/modules/integration/service"
	meetingrepo "meetly/modules/meeting/repository"
)

// Init wires the integration module, registers its routes and hooks the
// calendar sync task handler into the worker.
func Init(api *echo.Group, db database.Database, mw *middleware.Middleware, c *cache.Cache, w *worker.Worker) {
	repo := repository.NewIntegrationRepository(db)
	svc := service.NewIntegrationService(
		repo,
		c,
		meetingrepo.NewMeetingRepository(db),
		eventrepo.NewEventRepository(db),
	)
	ctrl := controller.NewIntegrationController(svc)
	rtr := router.NewIntegrationRouter(ctrl)

	rtr.Setup(api, mw)
	w.HandleFunc(constants.TaskCalendarSync, svc.HandleCalendarSyncTask)
}
