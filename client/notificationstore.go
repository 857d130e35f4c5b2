package client

import (
	"context"
	"fmt"
	"sync"

	notifdomain "github.com/example/task-manager/domain/notification"
)

// ReadConfirmer persists a read transition remotely. *Client satisfies
// it.
type ReadConfirmer interface {
	MarkNotificationRead(ctx context.Context, id string) (*notifdomain.Notification, error)
}

// NotificationStore is the client-side notification collection. Reads
// are optimistic: the local flip happens first and is rolled back when
// the remote confirmation fails.
type NotificationStore struct {
	mu     sync.RWMutex
	order  []string
	byID   map[string]notifdomain.Notification
	remote ReadConfirmer
}

// NewNotificationStore creates an empty store confirming reads through
// remote.
func NewNotificationStore(remote ReadConfirmer) *NotificationStore {
	return &NotificationStore{
		byID:   make(map[string]notifdomain.Notification),
		remote: remote,
	}
}

// Reset replaces the whole collection with an authoritative list.
func (s *NotificationStore) Reset(notifications []notifdomain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.byID = make(map[string]notifdomain.Notification, len(notifications))
	for _, n := range notifications {
		s.order = append(s.order, n.ID)
		s.byID[n.ID] = n
	}
}

// Add inserts or replaces a notification.
func (s *NotificationStore) Add(n notifdomain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[n.ID]; !exists {
		s.order = append(s.order, n.ID)
	}
	s.byID[n.ID] = n
}

// All returns the notifications in insertion order.
func (s *NotificationStore) All() []notifdomain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]notifdomain.Notification, 0, len(s.order))
	for _, id := range s.order {
		if n, ok := s.byID[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// UnreadCount counts the unread notifications. It is always recomputed
// from the collection, never cached separately.
func (s *NotificationStore) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.byID {
		if n.Status == notifdomain.StatusUnread {
			count++
		}
	}
	return count
}

// MarkAsRead flips a notification to read locally, then confirms with
// the server. On remote failure the local flip is rolled back and the
// error returned.
func (s *NotificationStore) MarkAsRead(ctx context.Context, id string) error {
	s.mu.Lock()
	n, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("notification %s not found", id)
	}
	if n.Status == notifdomain.StatusRead {
		s.mu.Unlock()
		return nil
	}
	n.Status = notifdomain.StatusRead
	s.byID[id] = n
	s.mu.Unlock()

	if _, err := s.remote.MarkNotificationRead(ctx, id); err != nil {
		s.mu.Lock()
		if current, ok := s.byID[id]; ok {
			current.Status = notifdomain.StatusUnread
			s.byID[id] = current
		}
		s.mu.Unlock()
		return fmt.Errorf("failed to confirm read for %s: %w", id, err)
	}
	return nil
}

// MarkAllAsRead confirms every unread notification with the server,
// flipping each locally only once confirmed. Items whose confirmation
// fails stay unread so they can be retried; the first error is
// returned after the rest have been attempted.
func (s *NotificationStore) MarkAllAsRead(ctx context.Context) error {
	s.mu.RLock()
	var unread []string
	for _, id := range s.order {
		if n, ok := s.byID[id]; ok && n.Status == notifdomain.StatusUnread {
			unread = append(unread, id)
		}
	}
	s.mu.RUnlock()

	var firstErr error
	for _, id := range unread {
		if _, err := s.remote.MarkNotificationRead(ctx, id); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to confirm read for %s: %w", id, err)
			}
			continue
		}
		s.mu.Lock()
		if n, ok := s.byID[id]; ok {
			n.Status = notifdomain.StatusRead
			s.byID[id] = n
		}
		s.mu.Unlock()
	}
	return firstErr
}
