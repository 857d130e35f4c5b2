package relay

import (
	"context"
	"testing"
	"time"
)

// waitForUserCount polls until the hub's run loop has applied the
// registration, since channel delivery only guarantees receipt.
func waitForUserCount(t *testing.T, hub *Hub, userID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.UserConnectionCount(userID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d connections for %s, got %d", want, userID, hub.UserConnectionCount(userID))
}

func TestHub_RegistrationBookkeeping(t *testing.T) {
	hub := NewHub()

	// Two tabs for user-1, one for user-2.
	hub.handleRegister(&Connection{ID: "c-1", UserID: "user-1"})
	hub.handleRegister(&Connection{ID: "c-2", UserID: "user-1"})
	hub.handleRegister(&Connection{ID: "c-3", UserID: "user-2"})

	if got := hub.ConnectionCount(); got != 3 {
		t.Fatalf("expected 3 connections, got %d", got)
	}
	if got := hub.UserConnectionCount("user-1"); got != 2 {
		t.Errorf("expected 2 connections for user-1, got %d", got)
	}
	if got := hub.UserConnectionCount("user-2"); got != 1 {
		t.Errorf("expected 1 connection for user-2, got %d", got)
	}
	if got := hub.UserConnectionCount("user-3"); got != 0 {
		t.Errorf("expected 0 connections for unknown user, got %d", got)
	}

	hub.handleUnregister(&Connection{ID: "c-1", UserID: "user-1"})
	if got := hub.UserConnectionCount("user-1"); got != 1 {
		t.Errorf("expected 1 connection for user-1 after unregister, got %d", got)
	}

	// A failed write and a client disconnect may both drop the same
	// connection. The second drop must be a no-op.
	hub.handleUnregister(&Connection{ID: "c-1", UserID: "user-1"})
	if got := hub.ConnectionCount(); got != 2 {
		t.Errorf("expected 2 connections after double unregister, got %d", got)
	}

	hub.handleUnregister(&Connection{ID: "c-2", UserID: "user-1"})
	if got := hub.UserConnectionCount("user-1"); got != 0 {
		t.Errorf("expected user-1 fully drained, got %d", got)
	}
}

func TestHub_PublishTargetsOnlyTheEventUser(t *testing.T) {
	hub := NewHub()
	hub.handleRegister(&Connection{ID: "c-1", UserID: "user-1"})
	hub.handleRegister(&Connection{ID: "c-2", UserID: "user-2"})

	if targets := hub.targetsFor("user-1"); len(targets) != 1 || targets[0].ID != "c-1" {
		t.Errorf("expected only user-1's connection, got %v", targets)
	}
	if targets := hub.targetsFor("user-3"); len(targets) != 0 {
		t.Errorf("expected no targets for a user without connections, got %v", targets)
	}
}

func TestHub_RunShutsDownOnContextCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	conn := &Connection{ID: "c-1", UserID: "user-1"}
	hub.Register(conn)
	waitForUserCount(t, hub, "user-1", 1)
	hub.Unregister(conn)
	waitForUserCount(t, hub, "user-1", 0)

	cancel()
	hub.Wait()

	if got := hub.ConnectionCount(); got != 0 {
		t.Errorf("expected 0 connections after shutdown, got %d", got)
	}
}
