package availability

import (
	"github.com/labstack/echo/v4"

	"meetly/core/config"
	"meetly/core/database"
	"meetly/core/middleware"
	authrepo "meetly/modules/auth/repository"
	"meetly/modules/availability/controller"
	"meetly/modules/availability/repository"
	"meetly/modules/availability/router"
	"meetly/modules/availability/service"
	eventrepo "meetly/modules/event/repository"
	meetingrepo "meetly/modules/meeting/repository"
)

// Init wires the availability module and registers its routes. The
// returned service is shared with the meeting module so bookings are
// validated by the same engine that produced the listings.
func Init(api *echo.Group, db database.Database, mw *middleware.Middleware) service.AvailabilityServiceInterface {
	cfg := config.Get()
	engine := service.NewSlotEngine(cfg.Booking.MaxRangeDays, cfg.Booking.MinNoticeMinutes)

	repo := repository.NewAvailabilityRepository(db)
	svc := service.NewAvailabilityService(
		repo,
		authrepo.NewUserRepository(db),
		eventrepo.NewEventRepository(db),
		meetingrepo.NewMeetingRepository(db),
		engine,
	)
	ctrl := controller.NewAvailabilityController(svc)
	rtr := router.NewAvailabilityRouter(ctrl)

	rtr.Setup(api, mw)
	return svc
}
