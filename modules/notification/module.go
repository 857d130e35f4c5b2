package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/task-manager/domain/notification"
	"github.com/example/task-manager/events"
	"github.com/example/task-manager/storage"
)

// Module persists notifications and produces them from task lifecycle
// events.
type Module struct {
	db      *gorm.DB
	service *Service
	dbPath  string
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new notification Module.
func NewModule() *Module {
	dbPath := os.Getenv("TASKMANAGER_DB_PATH")
	if dbPath == "" {
		dbPath = "taskmanager.db"
	}
	return &Module{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "notification"
}

// Start initializes storage.
func (m *Module) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(storage.SQLiteDSN(m.dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Notification{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewService(NewRepository(db))
	log.Printf("[notification] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[notification] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreate, json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreate, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceList, json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceList, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceMarkRead, json.Unmarshal, json.Marshal, m.handleMarkRead,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceMarkRead, err)
	}

	log.Println("[notification] Registered services: create-notification, list-notifications, mark-notification-read")
	return nil
}

// RegisterEventConsumers subscribes to task lifecycle events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	log.Println("[notification] Registered event consumers: TaskCreated, TaskUpdated, TaskDeleted")
	return nil
}

func (m *Module) handleCreate(ctx context.Context, req CreateNotificationRequest, _ *mono.Msg) (NotificationResponse, error) {
	n, err := m.service.Create(ctx, req.UserID, req.Message, req.TaskID)
	if err != nil {
		return NotificationResponse{}, err
	}
	return NotificationResponse{Notification: *n}, nil
}

func (m *Module) handleList(ctx context.Context, req ListNotificationsRequest, _ *mono.Msg) (ListNotificationsResponse, error) {
	notifications, unread, err := m.service.List(ctx, req.UserID)
	if err != nil {
		return ListNotificationsResponse{}, err
	}
	return ListNotificationsResponse{Notifications: notifications, Unread: unread}, nil
}

func (m *Module) handleMarkRead(ctx context.Context, req MarkReadRequest, _ *mono.Msg) (NotificationResponse, error) {
	n, err := m.service.MarkRead(ctx, req.UserID, req.NotificationID)
	if err != nil {
		return NotificationResponse{}, err
	}
	return NotificationResponse{Notification: *n}, nil
}

func (m *Module) handleTaskCreated(ctx context.Context, event events.TaskEvent, _ *mono.Msg) error {
	return m.recordTaskNotification(ctx, event, "New task added: "+event.Task.Title)
}

func (m *Module) handleTaskUpdated(ctx context.Context, event events.TaskEvent, _ *mono.Msg) error {
	return m.recordTaskNotification(ctx, event, "Task updated: "+event.Task.Title)
}

func (m *Module) handleTaskDeleted(ctx context.Context, event events.TaskEvent, _ *mono.Msg) error {
	return m.recordTaskNotification(ctx, event, "Task deleted: "+event.Task.Title)
}

func (m *Module) recordTaskNotification(ctx context.Context, event events.TaskEvent, message string) error {
	_, err := m.service.Create(ctx, event.UserID, message, event.Task.ID)
	if err != nil {
		log.Printf("[notification] failed to record notification for user %s: %v", event.UserID, err)
		return err
	}
	return nil
}
