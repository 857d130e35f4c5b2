package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/task-manager/domain/task"
)

// Wire-level event names, as delivered to WebSocket clients.
const (
	TaskCreated = "taskCreated"
	TaskUpdated = "taskUpdated"
	TaskDeleted = "taskDeleted"
)

// TaskEvent is the payload for all task lifecycle events. UserID is the
// task owner; the relay delivers only to that user's connections. The
// full task representation is carried even for deletions so consumers
// can build messages without a lookup.
type TaskEvent struct {
	UserID    string    `json:"user_id"`
	Task      task.Task `json:"task"`
	Timestamp time.Time `json:"timestamp"`
}

// Event definitions for the task domain.
var (
	TaskCreatedV1 = helper.EventDefinition[TaskEvent](
		"task",
		"TaskCreated",
		"v1",
	)

	TaskUpdatedV1 = helper.EventDefinition[TaskEvent](
		"task",
		"TaskUpdated",
		"v1",
	)

	TaskDeletedV1 = helper.EventDefinition[TaskEvent](
		"task",
		"TaskDeleted",
		"v1",
	)
)
