package task

import (
	"time"

	domain "github.com/example/task-manager/domain/task"
)

// Service names registered in the task service container.
const (
	ServiceCreate = "create-task"
	ServiceGet    = "get-task"
	ServiceList   = "list-tasks"
	ServiceUpdate = "update-task"
	ServiceDelete = "delete-task"
	ServiceStats  = "task-stats"
)

// CreateTaskRequest creates a task for a user.
type CreateTaskRequest struct {
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Status      string     `json:"status,omitempty"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task domain.Task `json:"task"`
}

// GetTaskRequest fetches one task.
type GetTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// ListTasksRequest fetches all of a user's tasks.
type ListTasksRequest struct {
	UserID string `json:"user_id"`
}

// ListTasksResponse returns the user's tasks with a count, mirroring the
// REST shape.
type ListTasksResponse struct {
	Length int           `json:"length"`
	Tasks  []domain.Task `json:"tasks"`
}

// UpdateTaskRequest applies a partial update. Nil fields are absent;
// present fields replace stored values even when false or empty.
type UpdateTaskRequest struct {
	UserID      string     `json:"user_id"`
	TaskID      string     `json:"task_id"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
}

// DeleteTaskRequest removes a task.
type DeleteTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// StatsRequest fetches the 30-day statistics for a user.
type StatsRequest struct {
	UserID string `json:"user_id"`
}

// StatsResponse wraps the statistics aggregate.
type StatsResponse struct {
	Stats domain.Statistics `json:"stats"`
}
