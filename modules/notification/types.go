package notification

import (
	domain "github.com/example/task-manager/domain/notification"
)

// Service names registered in the service container.
const (
	ServiceCreate   = "create-notification"
	ServiceList     = "list-notifications"
	ServiceMarkRead = "mark-notification-read"
)

// CreateNotificationRequest creates a notification for a user.
type CreateNotificationRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
	TaskID  string `json:"task_id,omitempty"`
}

// NotificationResponse carries a single notification.
type NotificationResponse struct {
	Notification domain.Notification `json:"notification"`
}

// ListNotificationsRequest lists a user's notifications.
type ListNotificationsRequest struct {
	UserID string `json:"user_id"`
}

// ListNotificationsResponse carries a user's notifications, newest first.
type ListNotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Unread        int64                 `json:"unread"`
}

// MarkReadRequest marks a notification as read on behalf of its owner.
type MarkReadRequest struct {
	UserID         string `json:"user_id"`
	NotificationID string `json:"notification_id"`
}
