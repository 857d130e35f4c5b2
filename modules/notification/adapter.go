package notification

import (
	"context"
	"encoding/json"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/example/task-manager/domain/notification"
)

// NotificationPort defines how other modules interact with the
// notification module.
type NotificationPort interface {
	Create(ctx context.Context, userID, message, taskID string) (*domain.Notification, error)
	List(ctx context.Context, userID string) ([]domain.Notification, int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) (*domain.Notification, error)
}

// Adapter implements NotificationPort by calling notification services
// through the service container.
type Adapter struct {
	container mono.ServiceContainer
}

var _ NotificationPort = (*Adapter)(nil)

// NewAdapter creates a new notification adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

func (a *Adapter) Create(ctx context.Context, userID, message, taskID string) (*domain.Notification, error) {
	req := CreateNotificationRequest{UserID: userID, Message: message, TaskID: taskID}
	var resp NotificationResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, ServiceCreate, json.Marshal, json.Unmarshal, &req, &resp,
	)
	if err != nil {
		return nil, err
	}
	return &resp.Notification, nil
}

func (a *Adapter) List(ctx context.Context, userID string) ([]domain.Notification, int64, error) {
	req := ListNotificationsRequest{UserID: userID}
	var resp ListNotificationsResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, ServiceList, json.Marshal, json.Unmarshal, &req, &resp,
	)
	if err != nil {
		return nil, 0, err
	}
	return resp.Notifications, resp.Unread, nil
}

func (a *Adapter) MarkRead(ctx context.Context, userID, notificationID string) (*domain.Notification, error) {
	req := MarkReadRequest{UserID: userID, NotificationID: notificationID}
	var resp NotificationResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, ServiceMarkRead, json.Marshal, json.Unmarshal, &req, &resp,
	)
	if err != nil {
		return nil, err
	}
	return &resp.Notification, nil
}
