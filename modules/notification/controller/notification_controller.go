package controller

import (
	"github.com/labstack/echo/v4"

	"meetly/core/controller"
	"meetly/core/errors"
	"meetly/core/middleware"
	"meetly/modules/notification/dto"
	"meetly/modules/notification/service"
)

// NotificationController handles in-app notification HTTP requests.
type NotificationController struct {
	controller.BaseController
	NotificationService service.NotificationServiceInterface
}

func NewNotificationController(svc service.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		BaseController:      controller.NewBaseController(),
		NotificationService: svc,
	}
}

// GetMyNotifications handles GET /notifications
func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.NotificationService.GetMyNotifications(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "notifications fetched")
}

// MarkAsRead handles PUT /notifications/mark-read
func (c *NotificationController) MarkAsRead(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.MarkAsReadRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	if appErr := c.NotificationService.MarkAsRead(ctx.Request().Context(), userID, &req); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "notifications marked as read")
}

// MarkAllAsRead handles PUT /notifications/mark-all-read
func (c *NotificationController) MarkAllAsRead(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	if appErr := c.NotificationService.MarkAllAsRead(ctx.Request().Context(), userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "all notifications marked as read")
}

// CountUnread handles GET /notifications/unread-count
func (c *NotificationController) CountUnread(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.NotificationService.CountUnread(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "unread count fetched")
}
