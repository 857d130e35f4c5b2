package client

import (
	"sync"

	taskdomain "github.com/example/task-manager/domain/task"
)

// TaskStore is the client-side task collection: ordered, keyed by id.
// Both the REST response for a mutation and the matching relay event
// flow through Upsert, in either order, and converge on the same state.
type TaskStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]taskdomain.Task
}

// NewTaskStore creates an empty TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		byID: make(map[string]taskdomain.Task),
	}
}

// Reset replaces the whole collection with an authoritative list, e.g.
// after the initial fetch or a reconnect resync.
func (s *TaskStore) Reset(tasks []taskdomain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.byID = make(map[string]taskdomain.Task, len(tasks))
	for _, t := range tasks {
		s.order = append(s.order, t.ID)
		s.byID[t.ID] = t
	}
}

// Upsert inserts or replaces a task. A created event for an id already
// present is treated as an update, never an append, so the originator
// of a mutation can apply its own relay echo safely.
func (s *TaskStore) Upsert(t taskdomain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.byID[t.ID] = t
}

// Remove deletes a task by id. Removing an unknown id is a no-op.
func (s *TaskStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[id]; !exists {
		return
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Get returns a task by id.
func (s *TaskStore) Get(id string) (taskdomain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	return t, ok
}

// All returns the tasks in insertion order.
func (s *TaskStore) All() []taskdomain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(taskdomain.Task) bool { return true })
}

// Active returns the incomplete tasks. The view is recomputed from the
// backing collection on every call rather than patched incrementally.
func (s *TaskStore) Active() []taskdomain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(t taskdomain.Task) bool { return !t.Completed })
}

// Completed returns the completed tasks, recomputed like Active.
func (s *TaskStore) Completed() []taskdomain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(t taskdomain.Task) bool { return t.Completed })
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *TaskStore) collect(keep func(taskdomain.Task) bool) []taskdomain.Task {
	out := make([]taskdomain.Task, 0, len(s.order))
	for _, id := range s.order {
		if t, ok := s.byID[id]; ok && keep(t) {
			out = append(out, t)
		}
	}
	return out
}
