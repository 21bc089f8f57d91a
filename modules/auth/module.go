package auth

import (
	"github.com/labstack/echo/v4"

	"meetly/core/cache"
	"meetly/core/database"
	"meetly/core/middleware"
	"meetly/core/storage"
	"meetly/modules/auth/controller"
	"meetly/modules/auth/repository"
	"meetly/modules/auth/router"
	"meetly/modules/auth/service"
	availrepo "meetly/modules/availability/repository"
)

// Init wires the auth module and registers its routes.
func Init(api *echo.Group, db database.Database, mw *middleware.Middleware, c *cache.Cache, store *storage.Storage) {
	repo := repository.NewUserRepository(db)
	svc := service.NewAuthService(
		repo,
		availrepo.NewAvailabilityRepository(db),
		c,
		store,
	)
	ctrl := controller.NewAuthController(svc)
	rtr := router.NewAuthRouter(ctrl)

	rtr.Setup(api, mw)
}
