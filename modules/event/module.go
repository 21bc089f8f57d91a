package event

import (
	"github.com/labstack/echo/v4"

	"meetly/core/database"
	"meetly/core/middleware"
	authrepo "meetly/modules/auth/repository"
	"meetly/modules/event/controller"
	"meetly/modules/event/repository"
	"meetly/modules/event/router"
	"meetly/modules/event/service"
	meetingrepo "meetly/modules/meeting/repository"
)

// Init wires the event module and registers its routes.
func Init(api *echo.Group, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(
		repo,
		authrepo.NewUserRepository(db),
		meetingrepo.NewMeetingRepository(db),
	)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(api, mw)
}
