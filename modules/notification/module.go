package notification

import (
	"github.com/labstack/echo/v4"

	"meetly/core/constants"
	"meetly/core/database"
	"meetly/core/middleware"
	"meetly/core/worker"
	"meetly/modules/notification/controller"
	"meetly/modules/notification/repository"
	"meetly/modules/notification/router"
	"meetly/modules/notification/service"
)

// Init wires the notification module, registers its routes and hooks the
// delivery task handler into the worker.
func Init(api *echo.Group, db database.Database, mw *middleware.Middleware, w *worker.Worker) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)

	rtr.Setup(api, mw)
	w.HandleFunc(constants.TaskNotificationDeliver, svc.HandleDeliverTask)
}
