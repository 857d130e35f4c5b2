package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/task-manager/events"
	"github.com/example/task-manager/modules/cache"
)

// capturedEvents records what the module handlers hand to the bus.
type capturedEvents struct {
	created []events.TaskEvent
	updated []events.TaskEvent
	deleted []events.TaskEvent
}

func setupTestModule(t *testing.T) (*Module, *capturedEvents) {
	t.Helper()

	m := NewModule()
	m.service = NewService(NewRepository(setupTestDB(t)), cache.New(nil, "test:", time.Minute))

	captured := &capturedEvents{}
	m.publishCreated = func(event events.TaskEvent) error {
		captured.created = append(captured.created, event)
		return nil
	}
	m.publishUpdated = func(event events.TaskEvent) error {
		captured.updated = append(captured.updated, event)
		return nil
	}
	m.publishDeleted = func(event events.TaskEvent) error {
		captured.deleted = append(captured.deleted, event)
		return nil
	}
	return m, captured
}

func TestModule_EventsCarryCompletionState(t *testing.T) {
	m, captured := setupTestModule(t)
	ctx := context.Background()

	created, err := m.handleCreate(ctx, CreateTaskRequest{
		UserID:      "owner-1",
		Title:       "Ship report",
		Description: "Q3",
	}, nil)
	if err != nil {
		t.Fatalf("handleCreate() error = %v", err)
	}
	if len(captured.created) != 1 {
		t.Fatalf("expected 1 created event, got %d", len(captured.created))
	}
	if captured.created[0].UserID != "owner-1" {
		t.Errorf("expected event routed to owner-1, got %q", captured.created[0].UserID)
	}
	if captured.created[0].Task.Completed {
		t.Error("expected created event to carry an incomplete task")
	}

	if _, err := m.handleUpdate(ctx, UpdateTaskRequest{
		UserID:    "owner-1",
		TaskID:    created.Task.ID,
		Completed: boolPtr(true),
	}, nil); err != nil {
		t.Fatalf("handleUpdate() error = %v", err)
	}
	if len(captured.updated) != 1 {
		t.Fatalf("expected 1 updated event, got %d", len(captured.updated))
	}
	if !captured.updated[0].Task.Completed {
		t.Error("expected updated event to carry completed=true")
	}

	// Reopening emits an event carrying the false value; it must not be
	// swallowed as an absent field.
	if _, err := m.handleUpdate(ctx, UpdateTaskRequest{
		UserID:    "owner-1",
		TaskID:    created.Task.ID,
		Completed: boolPtr(false),
	}, nil); err != nil {
		t.Fatalf("handleUpdate() error = %v", err)
	}
	if len(captured.updated) != 2 {
		t.Fatalf("expected 2 updated events, got %d", len(captured.updated))
	}
	if captured.updated[1].Task.Completed {
		t.Error("expected reopen event to carry completed=false")
	}

	if _, err := m.handleDelete(ctx, DeleteTaskRequest{
		UserID: "owner-1",
		TaskID: created.Task.ID,
	}, nil); err != nil {
		t.Fatalf("handleDelete() error = %v", err)
	}
	if len(captured.deleted) != 1 {
		t.Fatalf("expected 1 deleted event, got %d", len(captured.deleted))
	}
	if captured.deleted[0].Task.ID != created.Task.ID {
		t.Errorf("expected deleted event to carry the task, got %q", captured.deleted[0].Task.ID)
	}
}

func TestModule_PublishFailureDoesNotFailMutation(t *testing.T) {
	m, _ := setupTestModule(t)
	m.publishCreated = func(events.TaskEvent) error {
		return errors.New("bus unavailable")
	}

	resp, err := m.handleCreate(context.Background(), CreateTaskRequest{
		UserID:      "owner-1",
		Title:       "Ship report",
		Description: "Q3",
	}, nil)
	if err != nil {
		t.Fatalf("handleCreate() error = %v", err)
	}
	if resp.Task.ID == "" {
		t.Error("expected the committed task back despite the publish failure")
	}

	// The row is there for the next fetch.
	if _, err := m.service.Get(context.Background(), "owner-1", resp.Task.ID); err != nil {
		t.Errorf("expected task to be persisted, got %v", err)
	}
}
