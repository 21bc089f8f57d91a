package router

import (
	"github.com/labstack/echo/v4"

	"meetly/core/middleware"
	"meetly/modules/auth/controller"
)

// AuthRouter registers authentication routes.
type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		AuthController: authController,
	}
}

// Setup registers auth routes.
func (r *AuthRouter) Setup(api *echo.Group, mw *middleware.Middleware) {
	auth := api.Group("/auth")

	auth.POST("/register", r.AuthController.Register)
	auth.POST("/login", r.AuthController.Login)

	protected := auth.Group("", mw.AuthMiddleware())
	protected.POST("/logout", r.AuthController.Logout)
	protected.GET("/profile", r.AuthController.GetProfile)
	protected.PUT("/profile", r.AuthController.UpdateProfile)
	protected.POST("/profile/image", r.AuthController.UploadProfileImage)
}
