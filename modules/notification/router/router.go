package router

import (
	"github.com/labstack/echo/v4"

	"meetly/core/middleware"
	"meetly/modules/notification/controller"
)

// NotificationRouter registers notification routes.
type NotificationRouter struct {
	NotificationController *controller.NotificationController
}

func NewNotificationRouter(notificationController *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{
		NotificationController: notificationController,
	}
}

// Setup registers notification routes. All routes require authentication.
func (r *NotificationRouter) Setup(api *echo.Group, mw *middleware.Middleware) {
	notifications := api.Group("/notifications", mw.AuthMiddleware())

	notifications.GET("", r.NotificationController.GetMyNotifications)
	notifications.GET("/unread-count", r.NotificationController.CountUnread)
	notifications.PUT("/mark-read", r.NotificationController.MarkAsRead)
	notifications.PUT("/mark-all-read", r.NotificationController.MarkAllAsRead)
}
