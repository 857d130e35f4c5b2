package api

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	domain "github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/modules/relay"
)

// HandleWebSocket attaches an authenticated connection to the relay
// hub. The connection only ever receives frames for its own user; the
// read loop exists to notice the close.
func (h *Handlers) HandleWebSocket(hub *relay.Hub) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		claims, ok := c.Locals(UserContextKey).(*domain.Claims)
		if !ok {
			_ = c.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			c.Close()
			return
		}

		conn := &relay.Connection{
			ID:     uuid.NewString(),
			UserID: claims.UserID,
			Conn:   c,
		}
		hub.Register(conn)
		defer func() {
			hub.Unregister(conn)
			c.Close()
		}()

		log.Printf("[api] WebSocket connected: user %s connection %s", claims.UserID, conn.ID)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					log.Printf("[api] WebSocket error for user %s: %v", claims.UserID, err)
				}
				break
			}
			// Inbound frames are ignored. Clients mutate over REST.
		}

		log.Printf("[api] WebSocket disconnected: user %s connection %s", claims.UserID, conn.ID)
	}
}
