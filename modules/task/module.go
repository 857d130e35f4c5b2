package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/events"
	"github.com/example/task-manager/modules/cache"
	"github.com/example/task-manager/storage"
)

const statsCacheTTL = 5 * time.Minute

// publishFunc delivers one task lifecycle event to the bus.
type publishFunc func(events.TaskEvent) error

// Module provides task CRUD, statistics and task lifecycle events.
type Module struct {
	db       *gorm.DB
	redis    *redis.Client
	service  *Service
	eventBus mono.EventBus
	dbPath   string

	publishCreated publishFunc
	publishUpdated publishFunc
	publishDeleted publishFunc
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new task Module.
func NewModule() *Module {
	dbPath := os.Getenv("TASKMANAGER_DB_PATH")
	if dbPath == "" {
		dbPath = "taskmanager.db"
	}
	m := &Module{
		dbPath: dbPath,
	}
	m.publishCreated = func(event events.TaskEvent) error {
		return events.TaskCreatedV1.Publish(m.eventBus, event, nil)
	}
	m.publishUpdated = func(event events.TaskEvent) error {
		return events.TaskUpdatedV1.Publish(m.eventBus, event, nil)
	}
	m.publishDeleted = func(event events.TaskEvent) error {
		return events.TaskDeletedV1.Publish(m.eventBus, event, nil)
	}
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return "task"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// Start initializes storage and the stats cache.
func (m *Module) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(storage.SQLiteDSN(m.dbPath)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	statsCache := cache.New(m.openRedis(), "task-stats:", statsCacheTTL)
	m.service = NewService(NewRepository(db), statsCache)

	if statsCache.Enabled() {
		log.Printf("[task] Module started (database: %s, stats cache: redis)", m.dbPath)
	} else {
		log.Printf("[task] Module started (database: %s, stats cache: disabled)", m.dbPath)
	}
	return nil
}

// openRedis connects to Redis when REDIS_ADDR is set. The stats cache
// runs as a pass-through without it.
func (m *Module) openRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[task] redis unavailable at %s, stats cache disabled: %v", addr, err)
		_ = client.Close()
		return nil
	}
	m.redis = client
	return client
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	if m.redis != nil {
		_ = m.redis.Close()
	}
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
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
		Details: map[string]any{
			"database": m.dbPath,
		},
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
		container, ServiceGet, json.Unmarshal, json.Marshal, m.handleGet,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGet, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceList, json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceList, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdate, json.Unmarshal, json.Marshal, m.handleUpdate,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUpdate, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceDelete, json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceDelete, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceStats, json.Unmarshal, json.Marshal, m.handleStats,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceStats, err)
	}

	log.Println("[task] Registered services: create-task, get-task, list-tasks, update-task, delete-task, task-stats")
	return nil
}

func (m *Module) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Create(ctx, req.UserID, CreateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		return TaskResponse{}, err
	}

	if err := m.publishCreated(m.taskEvent(*task)); err != nil {
		// The row is committed, so clients converge on their next re-fetch.
		log.Printf("[task] failed to publish TaskCreated event for task %s: %v", task.ID, err)
	}
	return TaskResponse{Task: *task}, nil
}

func (m *Module) handleGet(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Get(ctx, req.UserID, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return TaskResponse{Task: *task}, nil
}

func (m *Module) handleList(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(ctx, req.UserID)
	if err != nil {
		return ListTasksResponse{}, err
	}
	return ListTasksResponse{Length: len(tasks), Tasks: tasks}, nil
}

func (m *Module) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Update(ctx, req.UserID, req.TaskID, UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
		Completed:   req.Completed,
	})
	if err != nil {
		return TaskResponse{}, err
	}

	if err := m.publishUpdated(m.taskEvent(*task)); err != nil {
		log.Printf("[task] failed to publish TaskUpdated event for task %s: %v", task.ID, err)
	}
	return TaskResponse{Task: *task}, nil
}

func (m *Module) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Delete(ctx, req.UserID, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}

	if err := m.publishDeleted(m.taskEvent(*task)); err != nil {
		log.Printf("[task] failed to publish TaskDeleted event for task %s: %v", task.ID, err)
	}
	return TaskResponse{Task: *task}, nil
}

func (m *Module) handleStats(ctx context.Context, req StatsRequest, _ *mono.Msg) (StatsResponse, error) {
	stats, err := m.service.Statistics(ctx, req.UserID)
	if err != nil {
		return StatsResponse{}, err
	}
	return StatsResponse{Stats: *stats}, nil
}

func (m *Module) taskEvent(task domain.Task) events.TaskEvent {
	return events.TaskEvent{
		UserID:    task.UserID,
		Task:      task,
		Timestamp: time.Now(),
	}
}
