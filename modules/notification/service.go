package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/example/task-manager/domain/notification"
)

// Service implements notification business logic.
type Service struct {
	repo *Repository
}

// NewService creates a new notification service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a notification for a user.
func (s *Service) Create(ctx context.Context, userID, message, taskID string) (*domain.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserRequired
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrMessageRequired
	}

	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		TaskID:    taskID,
		Status:    domain.StatusUnread,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns a user's notifications, newest first, together with the
// unread count.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Notification, int64, error) {
	notifications, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

// MarkRead marks a notification as read. The transition only ever goes
// unread to read, and only the owner may mark.
func (s *Service) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	return s.repo.MarkRead(ctx, userID, id)
}
