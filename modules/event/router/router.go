package router

import (
	"github.com/labstack/echo/v4"

	"meetly/core/middleware"
	"meetly/modules/event/controller"
)

// EventRouter registers event routes.
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers event routes. The public listing powers a host's
// booking page and carries no authentication.
func (r *EventRouter) Setup(api *echo.Group, mw *middleware.Middleware) {
	events := api.Group("/events")

	events.GET("/public/:username", r.EventController.GetPublicEvents)
	events.GET("/public/:username/:slug", r.EventController.GetPublicEvent)

	protected := events.Group("", mw.AuthMiddleware())
	protected.POST("/create", r.EventController.CreateEvent)
	protected.GET("/all", r.EventController.GetMyEvents)
	protected.GET("/:id", r.EventController.GetEvent)
	protected.PUT("/:id", r.EventController.UpdateEvent)
	protected.PUT("/toggle-privacy/:id", r.EventController.TogglePrivacy)
	protected.DELETE("/:id", r.EventController.DeleteEvent)
}
