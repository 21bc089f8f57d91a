package dto

import (
	"time"

	"github.com/google/uuid"

	"meetly/modules/notification/entity"
)

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

type MarkAsReadRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

func ToNotificationResponse(n *entity.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationResponses(notifications []entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		out = append(out, *ToNotificationResponse(&notifications[i]))
	}
	return out
}
