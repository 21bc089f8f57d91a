package router

import (
	"github.com/labstack/echo/v4"

	"meetly/core/middleware"
	"meetly/modules/availability/controller"
)

// AvailabilityRouter registers availability routes.
type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
}

func NewAvailabilityRouter(availabilityController *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{
		AvailabilityController: availabilityController,
	}
}

// Setup registers availability routes. The public slot listing is the
// guest booking page and carries no authentication.
func (r *AvailabilityRouter) Setup(api *echo.Group, mw *middleware.Middleware) {
	availability := api.Group("/availability")

	availability.GET("/public/:username/:slug", r.AvailabilityController.GetPublicEventSlots)

	protected := availability.Group("", mw.AuthMiddleware())
	protected.GET("/me", r.AvailabilityController.GetMyAvailability)
	protected.PUT("/update", r.AvailabilityController.UpdateAvailability)
}
