package client

import (
	"testing"

	taskdomain "github.com/example/task-manager/domain/task"
)

func testTask(id, title string, completed bool) taskdomain.Task {
	return taskdomain.Task{
		ID:        id,
		UserID:    "user-1",
		Title:     title,
		Completed: completed,
	}
}

func TestTaskStore_Upsert(t *testing.T) {
	store := NewTaskStore()

	store.Upsert(testTask("t-1", "first", false))
	store.Upsert(testTask("t-2", "second", false))
	if store.Len() != 2 {
		t.Fatalf("expected 2 tasks, got %d", store.Len())
	}

	// A second upsert for the same id replaces in place.
	store.Upsert(testTask("t-1", "first renamed", true))
	if store.Len() != 2 {
		t.Fatalf("expected upsert of existing id to keep length 2, got %d", store.Len())
	}
	got, ok := store.Get("t-1")
	if !ok {
		t.Fatal("expected t-1 to be present")
	}
	if got.Title != "first renamed" || !got.Completed {
		t.Errorf("expected replaced task, got %+v", got)
	}

	all := store.All()
	if all[0].ID != "t-1" || all[1].ID != "t-2" {
		t.Errorf("expected insertion order preserved, got %v", all)
	}
}

func TestTaskStore_UpsertIsCommutative(t *testing.T) {
	// The REST response and the relay echo for the same mutation may
	// arrive in either order. Both orders must converge.
	restResult := testTask("t-1", "buy groceries", false)
	relayEcho := testTask("t-1", "buy groceries", false)

	first := NewTaskStore()
	first.Upsert(restResult)
	first.Upsert(relayEcho)

	second := NewTaskStore()
	second.Upsert(relayEcho)
	second.Upsert(restResult)

	if first.Len() != 1 || second.Len() != 1 {
		t.Fatalf("expected a single task in both stores, got %d and %d", first.Len(), second.Len())
	}
	a, _ := first.Get("t-1")
	b, _ := second.Get("t-1")
	if a != b {
		t.Errorf("stores diverged: %+v vs %+v", a, b)
	}
}

func TestTaskStore_Remove(t *testing.T) {
	store := NewTaskStore()
	store.Upsert(testTask("t-1", "first", false))
	store.Upsert(testTask("t-2", "second", false))

	store.Remove("t-1")
	if store.Len() != 1 {
		t.Fatalf("expected 1 task after remove, got %d", store.Len())
	}
	if _, ok := store.Get("t-1"); ok {
		t.Error("expected t-1 to be gone")
	}

	// Removing an unknown or already removed id is a no-op.
	store.Remove("t-1")
	store.Remove("no-such-id")
	if store.Len() != 1 {
		t.Errorf("expected length to stay 1, got %d", store.Len())
	}
}

func TestTaskStore_Views(t *testing.T) {
	store := NewTaskStore()
	store.Upsert(testTask("t-1", "active one", false))
	store.Upsert(testTask("t-2", "done one", true))
	store.Upsert(testTask("t-3", "active two", false))

	if got := len(store.Active()); got != 2 {
		t.Errorf("expected 2 active tasks, got %d", got)
	}
	if got := len(store.Completed()); got != 1 {
		t.Errorf("expected 1 completed task, got %d", got)
	}

	// Completing a task moves it between views on the next read.
	store.Upsert(testTask("t-1", "active one", true))
	if got := len(store.Active()); got != 1 {
		t.Errorf("expected 1 active task after completion, got %d", got)
	}
	if got := len(store.Completed()); got != 2 {
		t.Errorf("expected 2 completed tasks after completion, got %d", got)
	}
}

func TestTaskStore_Reset(t *testing.T) {
	store := NewTaskStore()
	store.Upsert(testTask("stale", "stale", false))

	store.Reset([]taskdomain.Task{
		testTask("t-1", "first", false),
		testTask("t-2", "second", true),
	})

	if store.Len() != 2 {
		t.Fatalf("expected 2 tasks after reset, got %d", store.Len())
	}
	if _, ok := store.Get("stale"); ok {
		t.Error("expected stale task to be dropped by reset")
	}
	all := store.All()
	if all[0].ID != "t-1" || all[1].ID != "t-2" {
		t.Errorf("expected authoritative order, got %v", all)
	}
}
