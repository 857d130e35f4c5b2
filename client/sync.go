package client

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	taskdomain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/events"
)

const (
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// frame is the wire shape pushed by the server's WebSocket endpoint.
type frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Syncer keeps the local stores in sync with the server. It applies
// REST responses directly and consumes the relay's WebSocket events,
// which may echo the caller's own mutations; both paths converge on
// the same store state in either order. There is no replay on the
// relay, so every (re)connect re-fetches the authoritative lists
// instead of trusting missed events to arrive.
type Syncer struct {
	api           *Client
	dispatcher    *Dispatcher
	Tasks         *TaskStore
	Notifications *NotificationStore
	userID        string
	dialer        *websocket.Dialer
}

// NewSyncer creates a Syncer for the given authenticated user.
func NewSyncer(api *Client, userID string) *Syncer {
	s := &Syncer{
		api:           api,
		dispatcher:    NewDispatcher(),
		Tasks:         NewTaskStore(),
		Notifications: NewNotificationStore(api),
		userID:        userID,
		dialer:        websocket.DefaultDialer,
	}

	s.dispatcher.Subscribe(events.TaskCreated, s.applyTaskUpsert)
	s.dispatcher.Subscribe(events.TaskUpdated, s.applyTaskUpsert)
	s.dispatcher.Subscribe(events.TaskDeleted, s.applyTaskDelete)
	return s
}

// Dispatcher exposes the event fan-out so callers can attach their own
// handlers, e.g. to refresh UI state. Handles must be cancelled on
// teardown or handlers fire once per leaked subscription.
func (s *Syncer) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// CreateTask creates a task remotely and applies the result locally.
func (s *Syncer) CreateTask(ctx context.Context, in CreateTaskInput) (*taskdomain.Task, error) {
	created, err := s.api.CreateTask(ctx, in)
	if err != nil {
		return nil, err
	}
	s.Tasks.Upsert(*created)
	return created, nil
}

// UpdateTask applies a partial update remotely and locally.
func (s *Syncer) UpdateTask(ctx context.Context, id string, in UpdateTaskInput) (*taskdomain.Task, error) {
	updated, err := s.api.UpdateTask(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.Tasks.Upsert(*updated)
	return updated, nil
}

// DeleteTask removes a task remotely and locally.
func (s *Syncer) DeleteTask(ctx context.Context, id string) (*taskdomain.Task, error) {
	deleted, err := s.api.DeleteTask(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Tasks.Remove(id)
	return deleted, nil
}

// Resync replaces both stores with the server's current state.
func (s *Syncer) Resync(ctx context.Context) error {
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		return err
	}
	s.Tasks.Reset(tasks)

	notifications, err := s.api.ListNotifications(ctx, s.userID)
	if err != nil {
		return err
	}
	s.Notifications.Reset(notifications)
	return nil
}

// Run connects to the WebSocket endpoint and consumes events until the
// context is cancelled, reconnecting with backoff on failure. Each
// successful connect triggers a Resync.
func (s *Syncer) Run(ctx context.Context) {
	delay := reconnectBaseDelay
	for {
		if err := s.connectAndListen(ctx); err != nil {
			log.Printf("[client] sync connection lost: %v", err)
		}
		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > reconnectMaxDelay {
			delay = reconnectMaxDelay
		}
	}
}

func (s *Syncer) connectAndListen(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.wsURL(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := s.Resync(ctx); err != nil {
		return err
	}
	log.Printf("[client] sync connected for user %s", s.userID)

	// Close the connection when the context ends so ReadMessage
	// unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			log.Printf("[client] dropping malformed frame: %v", err)
			continue
		}
		s.dispatcher.Publish(f.Event, f.Payload)
	}
}

func (s *Syncer) wsURL() string {
	base := s.api.BaseURL()
	base = strings.Replace(base, "https://", "wss://", 1)
	base = strings.Replace(base, "http://", "ws://", 1)
	return base + "/ws?token=" + s.api.Token()
}

func (s *Syncer) applyTaskUpsert(payload []byte) {
	var t taskdomain.Task
	if err := json.Unmarshal(payload, &t); err != nil {
		log.Printf("[client] dropping malformed task payload: %v", err)
		return
	}
	s.Tasks.Upsert(t)
	s.refreshNotifications()
}

func (s *Syncer) applyTaskDelete(payload []byte) {
	var t taskdomain.Task
	if err := json.Unmarshal(payload, &t); err != nil {
		log.Printf("[client] dropping malformed task payload: %v", err)
		return
	}
	s.Tasks.Remove(t.ID)
	s.refreshNotifications()
}

// refreshNotifications re-fetches the persisted notification list. The
// server records a notification for every task event, so the list is
// re-read instead of synthesized locally.
func (s *Syncer) refreshNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notifications, err := s.api.ListNotifications(ctx, s.userID)
	if err != nil {
		log.Printf("[client] failed to refresh notifications: %v", err)
		return
	}
	s.Notifications.Reset(notifications)
}
