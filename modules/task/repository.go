package task

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	domain "github.com/example/task-manager/domain/task"
)

// Repository handles task persistence using GORM. Per-owner title
// uniqueness is enforced by the composite unique index on the entity;
// duplicate-key errors are translated to ErrTitleExists so concurrent
// creations cannot race past an application-level check.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task.
func (r *Repository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTitleExists
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *Repository) FindByID(id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindByOwner retrieves all tasks owned by a user, oldest first.
func (r *Repository) FindByOwner(ownerID string) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := r.db.Where("user_id = ?", ownerID).Order("created_at asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// Save persists the full task state.
func (r *Repository) Save(task *domain.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTitleExists
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// Delete removes a task by ID.
func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&domain.Task{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Statistics computes the aggregate view over tasks created since the
// window start. Average completion time is the mean of
// (updated_at - created_at) over completed tasks in the window, in hours.
func (r *Repository) Statistics(ownerID string, since time.Time) (*domain.Statistics, error) {
	var completed, pending, created int64

	if err := r.db.Model(&domain.Task{}).
		Where("user_id = ? AND completed = ? AND created_at >= ?", ownerID, true, since).
		Count(&completed).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	if err := r.db.Model(&domain.Task{}).
		Where("user_id = ? AND completed = ? AND created_at >= ?", ownerID, false, since).
		Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %w", err)
	}

	if err := r.db.Model(&domain.Task{}).
		Where("user_id = ? AND created_at >= ?", ownerID, since).
		Count(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to count created tasks: %w", err)
	}

	var avgHours *float64
	if err := r.db.Model(&domain.Task{}).
		Select("AVG((julianday(updated_at) - julianday(created_at)) * 24.0)").
		Where("user_id = ? AND completed = ? AND created_at >= ?", ownerID, true, since).
		Scan(&avgHours).Error; err != nil {
		return nil, fmt.Errorf("failed to compute average completion time: %w", err)
	}

	stats := &domain.Statistics{
		Completed:       completed,
		Pending:         pending,
		CreatedInWindow: created,
	}

	total := completed + pending
	if total > 0 {
		stats.CompletionRate = round2(float64(completed) / float64(total) * 100)
	}
	if avgHours != nil {
		stats.AvgCompletionTime = round2(*avgHours)
	}

	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
