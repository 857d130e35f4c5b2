package client

import (
	"context"
	"errors"
	"testing"

	notifdomain "github.com/example/task-manager/domain/notification"
)

// stubConfirmer confirms reads and can be told to fail for chosen ids.
type stubConfirmer struct {
	failFor   map[string]bool
	confirmed []string
}

func (s *stubConfirmer) MarkNotificationRead(ctx context.Context, id string) (*notifdomain.Notification, error) {
	if s.failFor[id] {
		return nil, errors.New("server unavailable")
	}
	s.confirmed = append(s.confirmed, id)
	return &notifdomain.Notification{ID: id, Status: notifdomain.StatusRead}, nil
}

func unreadNotification(id, message string) notifdomain.Notification {
	return notifdomain.Notification{
		ID:      id,
		UserID:  "user-1",
		Message: message,
		Status:  notifdomain.StatusUnread,
	}
}

func TestNotificationStore_UnreadCount(t *testing.T) {
	store := NewNotificationStore(&stubConfirmer{})

	store.Add(unreadNotification("n-1", "one"))
	store.Add(unreadNotification("n-2", "two"))
	read := unreadNotification("n-3", "three")
	read.Status = notifdomain.StatusRead
	store.Add(read)

	if got := store.UnreadCount(); got != 2 {
		t.Errorf("expected 2 unread, got %d", got)
	}
	if got := len(store.All()); got != 3 {
		t.Errorf("expected 3 notifications, got %d", got)
	}
}

func TestNotificationStore_MarkAsRead(t *testing.T) {
	remote := &stubConfirmer{}
	store := NewNotificationStore(remote)
	store.Add(unreadNotification("n-1", "one"))

	if err := store.MarkAsRead(context.Background(), "n-1"); err != nil {
		t.Fatalf("MarkAsRead() error = %v", err)
	}
	if got := store.UnreadCount(); got != 0 {
		t.Errorf("expected 0 unread, got %d", got)
	}
	if len(remote.confirmed) != 1 || remote.confirmed[0] != "n-1" {
		t.Errorf("expected remote confirmation for n-1, got %v", remote.confirmed)
	}

	// Already read: no second round trip.
	if err := store.MarkAsRead(context.Background(), "n-1"); err != nil {
		t.Fatalf("MarkAsRead() on read notification error = %v", err)
	}
	if len(remote.confirmed) != 1 {
		t.Errorf("expected no extra confirmation, got %v", remote.confirmed)
	}

	if err := store.MarkAsRead(context.Background(), "no-such-id"); err == nil {
		t.Error("expected an error for an unknown id")
	}
}

func TestNotificationStore_MarkAsRead_RollsBackOnFailure(t *testing.T) {
	remote := &stubConfirmer{failFor: map[string]bool{"n-1": true}}
	store := NewNotificationStore(remote)
	store.Add(unreadNotification("n-1", "one"))

	err := store.MarkAsRead(context.Background(), "n-1")
	if err == nil {
		t.Fatal("expected an error when the server rejects the read")
	}
	if got := store.UnreadCount(); got != 1 {
		t.Errorf("expected the local flip to be rolled back, unread = %d", got)
	}
}

func TestNotificationStore_MarkAllAsRead(t *testing.T) {
	remote := &stubConfirmer{failFor: map[string]bool{"n-2": true}}
	store := NewNotificationStore(remote)
	store.Add(unreadNotification("n-1", "one"))
	store.Add(unreadNotification("n-2", "two"))
	store.Add(unreadNotification("n-3", "three"))

	err := store.MarkAllAsRead(context.Background())
	if err == nil {
		t.Fatal("expected the first failure to be reported")
	}

	// The failed item stays unread for retry, the rest were still
	// attempted and flipped.
	if got := store.UnreadCount(); got != 1 {
		t.Errorf("expected only the failed item unread, got %d", got)
	}
	if len(remote.confirmed) != 2 {
		t.Errorf("expected 2 confirmations, got %v", remote.confirmed)
	}

	// Retry after the server recovers.
	remote.failFor = nil
	if err := store.MarkAllAsRead(context.Background()); err != nil {
		t.Fatalf("MarkAllAsRead() retry error = %v", err)
	}
	if got := store.UnreadCount(); got != 0 {
		t.Errorf("expected 0 unread after retry, got %d", got)
	}
}
