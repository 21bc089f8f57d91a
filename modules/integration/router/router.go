package router

import (
	"github.com/labstack/echo/v4"

	"meetly/core/middleware"
	"meetly/modules/integration/controller"
)

// IntegrationRouter registers calendar connection routes.
type IntegrationRouter struct {
	IntegrationController *controller.IntegrationController
}

func NewIntegrationRouter(integrationController *controller.IntegrationController) *IntegrationRouter {
	return &IntegrationRouter{
		IntegrationController: integrationController,
	}
}

// Setup registers integration routes. The callback stays public because the
// provider redirects the browser there without our auth header; the state
// value binds the request back to the user.
func (r *IntegrationRouter) Setup(api *echo.Group, mw *middleware.Middleware) {
	integration := api.Group("/integration")

	integration.GET("/callback", r.IntegrationController.Callback)

	protected := integration.Group("", mw.AuthMiddleware())
	protected.GET("/connect", r.IntegrationController.Connect)
	protected.GET("/check/:provider", r.IntegrationController.Check)
	protected.GET("/list", r.IntegrationController.List)
	protected.DELETE("/disconnect/:provider", r.IntegrationController.Disconnect)
}
