package task

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/modules/cache"
)

// statsWindow is the trailing window for task statistics.
const statsWindow = 30 * 24 * time.Hour

// CreateInput carries the fields for a new task.
type CreateInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	Status      string
}

// UpdateInput carries a partial update. Nil pointers mean "field absent";
// present pointers replace the stored value even when it is false or
// empty, so completed=false and status="" are legitimate updates. A
// present zero DueDate clears the due date.
type UpdateInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *string
	Status      *string
	Completed   *bool
}

// Service provides task CRUD and statistics, scoped to the owning user.
type Service struct {
	repo  *Repository
	cache *cache.Cache
	group singleflight.Group
}

// NewService creates a new task Service.
func NewService(repo *Repository, statsCache *cache.Cache) *Service {
	return &Service{
		repo:  repo,
		cache: statsCache,
	}
}

// Create validates and persists a new task for the owner.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityLow
	}
	if !domain.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	status := in.Status
	if status == "" {
		status = domain.DefaultStatus
	}

	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		DueDate:     in.DueDate,
		Priority:    priority,
		Status:      status,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(task); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return task, nil
}

// Get returns a task if the caller owns it.
func (s *Service) Get(_ context.Context, ownerID, taskID string) (*domain.Task, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != ownerID {
		return nil, ErrNotOwner
	}
	return task, nil
}

// List returns all tasks owned by the caller.
func (s *Service) List(_ context.Context, ownerID string) ([]domain.Task, error) {
	return s.repo.FindByOwner(ownerID)
}

// Update applies a partial update to a task the caller owns. Fields are
// replaced only when present in the input, never skipped for being falsy.
func (s *Service) Update(ctx context.Context, ownerID, taskID string, in UpdateInput) (*domain.Task, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != ownerID {
		return nil, ErrNotOwner
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, ErrDescriptionRequired
		}
		task.Description = description
	}
	if in.DueDate != nil {
		if in.DueDate.IsZero() {
			task.DueDate = nil
		} else {
			due := *in.DueDate
			task.DueDate = &due
		}
	}
	if in.Priority != nil {
		if !domain.ValidPriority(*in.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *in.Priority
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}
	task.UpdatedAt = time.Now()

	if err := s.repo.Save(task); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return task, nil
}

// Delete removes a task the caller owns and returns its last state.
func (s *Service) Delete(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != ownerID {
		return nil, ErrNotOwner
	}

	if err := s.repo.Delete(taskID); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return task, nil
}

// Statistics returns the 30-day aggregate for the owner, served from the
// cache when possible. Concurrent misses for the same owner are collapsed
// through singleflight.
func (s *Service) Statistics(ctx context.Context, ownerID string) (*domain.Statistics, error) {
	var cached domain.Statistics
	hit, err := s.cache.Get(ctx, ownerID, &cached)
	if err == nil && hit {
		return &cached, nil
	}

	v, err, _ := s.group.Do(ownerID, func() (any, error) {
		stats, err := s.repo.Statistics(ownerID, time.Now().Add(-statsWindow))
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, ownerID, stats); err != nil {
			// Cache failures degrade to recomputation, never to request failure.
			log.Printf("[task] stats cache set failed: %v", err)
		}
		return stats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Statistics), nil
}

func (s *Service) invalidateStats(ctx context.Context, ownerID string) {
	if err := s.cache.Delete(ctx, ownerID); err != nil {
		log.Printf("[task] stats cache invalidation failed: %v", err)
	}
}
