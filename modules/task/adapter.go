package task

import (
	"context"
	"encoding/json"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/example/task-manager/domain/task"
)

// TaskPort defines how other modules interact with the task module.
type TaskPort interface {
	Create(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)
	Get(ctx context.Context, userID, taskID string) (*domain.Task, error)
	List(ctx context.Context, userID string) ([]domain.Task, error)
	Update(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID string) (*domain.Task, error)
	Statistics(ctx context.Context, userID string) (*domain.Statistics, error)
}

// Adapter implements TaskPort by calling task services through the
// service container.
type Adapter struct {
	container mono.ServiceContainer
}

var _ TaskPort = (*Adapter)(nil)

// NewAdapter creates a new task adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

func (a *Adapter) Create(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	var resp TaskResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, ServiceCreate, json.Marshal, json.Unmarshal, &req, &resp,
	)
	if err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (a *Adapter) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	req := GetTaskRequest{UserID: userID, TaskID: taskID}
	var resp TaskResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, ServiceGet, json.Marshal, json.Unmarshal, &req, &resp,
	)
	if err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (a *Adapter) List(ctx context.Context, userID string) ([]domain.Task, error) {
	req := ListTasksRequest{UserID: userID}
	var resp ListTasksResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, ServiceList, json.Marshal, json.Unmarshal, &req, &resp,
	)
	if err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (a *Adapter) Update(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error) {
	var resp TaskResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, ServiceUpdate, json.Marshal, json.Unmarshal, &req, &resp,
	)
	if err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (a *Adapter) Delete(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	req := DeleteTaskRequest{UserID: userID, TaskID: taskID}
	var resp TaskResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, ServiceDelete, json.Marshal, json.Unmarshal, &req, &resp,
	)
	if err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (a *Adapter) Statistics(ctx context.Context, userID string) (*domain.Statistics, error) {
	req := StatsRequest{UserID: userID}
	var resp StatsResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, ServiceStats, json.Marshal, json.Unmarshal, &req, &resp,
	)
	if err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}
