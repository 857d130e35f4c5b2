package task

import (
	"time"
)

// Valid task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DefaultStatus is assigned to tasks created without an explicit status.
// Status is otherwise a free-form string.
const DefaultStatus = "active"

// Task represents a task owned by a single user. The composite unique
// index on (user_id, title) enforces per-owner title uniqueness at the
// storage layer, so concurrent creations of the same title cannot race
// past a check-then-write.
type Task struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	UserID      string     `gorm:"uniqueIndex:idx_tasks_owner_title;not null;type:text" json:"user_id"`
	Title       string     `gorm:"uniqueIndex:idx_tasks_owner_title;not null;type:text" json:"title"`
	Description string     `gorm:"not null;type:text" json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `gorm:"type:text;default:low" json:"priority"`
	Status      string     `gorm:"type:text;default:active" json:"status"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// ValidPriority reports whether p is one of the accepted priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Statistics summarizes a user's tasks over a trailing window.
type Statistics struct {
	Completed         int64   `json:"completed"`
	Pending           int64   `json:"pending"`
	CompletionRate    float64 `json:"completion_rate"`
	CreatedInWindow   int64   `json:"tasks_created_last_30_days"`
	AvgCompletionTime float64 `json:"avg_completion_time"` // hours
}
