package notification

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/example/task-manager/domain/notification"
)

// Repository handles notification persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notification repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a notification.
func (r *Repository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// FindByID retrieves a notification by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindByUser retrieves all notifications for a user, newest first.
func (r *Repository) FindByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips an unread notification to read. Marking an already
// read notification is a no-op. Only the owner may mark.
func (r *Repository) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	n, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrNotOwner
	}
	if n.Status == domain.StatusRead {
		return n, nil
	}

	err = r.db.WithContext(ctx).Model(n).Update("status", domain.StatusRead).Error
	if err != nil {
		return nil, err
	}
	n.Status = domain.StatusRead
	return n, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *Repository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND status = ?", userID, domain.StatusUnread).
		Count(&count).Error
	return count, err
}
