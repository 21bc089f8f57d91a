package meeting

import (
	"github.com/labstack/echo/v4"

	"meetly/core/cache"
	"meetly/core/database"
	"meetly/core/middleware"
	"meetly/core/worker"
	availservice "meetly/modules/availability/service"
	eventrepo "meetly/modules/event/repository"
	"meetly/modules/meeting/controller"
	"meetly/modules/meeting/repository"
	"meetly/modules/meeting/router"
	"meetly/modules/meeting/service"
)

// Init wires the meeting module and registers its routes. The
// availability service is shared so bookings re-validate against the
// exact rules that produced the public listings.
func Init(api *echo.Group, db database.Database, mw *middleware.Middleware, availability availservice.AvailabilityServiceInterface, c *cache.Cache, w *worker.Worker) service.MeetingServiceInterface {
	repo := repository.NewMeetingRepository(db)
	svc := service.NewMeetingService(
		repo,
		eventrepo.NewEventRepository(db),
		availability,
		c,
		w,
	)
	ctrl := controller.NewMeetingController(svc)
	rtr := router.NewMeetingRouter(ctrl)

	rtr.Setup(api, mw)
	return svc
}
