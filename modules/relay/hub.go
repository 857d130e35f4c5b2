package relay

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// Connection represents one WebSocket connection belonging to a user.
// A user may hold several at once (multiple tabs or devices).
type Connection struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
}

// Hub manages WebSocket connections grouped per user and delivers task
// events only to connections owned by the event's user.
type Hub struct {
	connections map[string]*Connection     // connectionID -> Connection
	users       map[string]map[string]bool // userID -> set of connectionIDs
	register    chan *Connection
	unregister  chan *Connection
	publish     chan *Envelope
	done        chan struct{}
	mu          sync.RWMutex
}

// Envelope is the frame written to WebSocket clients.
type Envelope struct {
	UserID    string    `json:"-"`
	Event     string    `json:"event"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		users:       make(map[string]map[string]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		publish:     make(chan *Envelope, 256),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's main loop. It accepts a context for graceful shutdown.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("[hub] Shutting down...")
			h.closeAll()
			close(h.done)
			return
		case conn := <-h.register:
			h.handleRegister(conn)
		case conn := <-h.unregister:
			h.handleUnregister(conn)
		case env := <-h.publish:
			h.handlePublish(env)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conn := range h.connections {
		_ = conn.Conn.Close()
	}
	h.connections = make(map[string]*Connection)
	h.users = make(map[string]map[string]bool)
}

func (h *Hub) handleRegister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[conn.ID] = conn
	if h.users[conn.UserID] == nil {
		h.users[conn.UserID] = make(map[string]bool)
	}
	h.users[conn.UserID][conn.ID] = true
	log.Printf("[hub] Connection %s registered for user %s", conn.ID, conn.UserID)
}

func (h *Hub) handleUnregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropLocked(conn.ID)
}

// dropLocked removes a connection. Unregistering an unknown connection
// is a no-op, so a failed write and a client disconnect never race into
// a double delete.
func (h *Hub) dropLocked(connectionID string) {
	conn, ok := h.connections[connectionID]
	if !ok {
		return
	}
	delete(h.connections, connectionID)
	if h.users[conn.UserID] != nil {
		delete(h.users[conn.UserID], connectionID)
		if len(h.users[conn.UserID]) == 0 {
			delete(h.users, conn.UserID)
		}
	}
	log.Printf("[hub] Connection %s unregistered for user %s", connectionID, conn.UserID)
}

func (h *Hub) handlePublish(env *Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("[hub] Failed to marshal %s envelope: %v", env.Event, err)
		return
	}

	targets := h.targetsFor(env.UserID)

	// A write failure only costs that one connection. The rest of the
	// user's connections still get the frame.
	var failed []string
	for _, conn := range targets {
		if err := conn.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[hub] Failed to send %s to connection %s: %v", env.Event, conn.ID, err)
			failed = append(failed, conn.ID)
		}
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, connectionID := range failed {
			h.dropLocked(connectionID)
		}
		h.mu.Unlock()
	}
}

// targetsFor snapshots the connections owned by userID.
func (h *Hub) targetsFor(userID string) []*Connection {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var targets []*Connection
	for connectionID := range h.users[userID] {
		if conn, ok := h.connections[connectionID]; ok {
			targets = append(targets, conn)
		}
	}
	return targets
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Publish delivers an event to every connection owned by userID.
// Users with no connections are skipped silently.
func (h *Hub) Publish(userID, event string, payload any) {
	h.publish <- &Envelope{
		UserID:    userID,
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// ConnectionCount returns the total number of connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// UserConnectionCount returns the number of connections a user holds.
func (h *Hub) UserConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if connections, ok := h.users[userID]; ok {
		return len(connections)
	}
	return 0
}
