package notification

import (
	"time"
)

// Notification statuses. A notification only ever moves unread -> read.
const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

// Notification represents a persisted notification targeting a single user.
type Notification struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    string    `gorm:"index;not null;type:text" json:"user_id"`
	Message   string    `gorm:"not null;type:text" json:"message"`
	TaskID    string    `gorm:"type:text" json:"task_id,omitempty"`
	Status    string    `gorm:"type:text;default:unread" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the Notification entity.
func (Notification) TableName() string {
	return "notifications"
}
