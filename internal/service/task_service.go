package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planify/internal/cache"
	apperrors "planify/internal/errors"
	"planify/internal/model"
	"planify/internal/repository"
)

const statsCacheTTL = time.Minute

// TaskStats aggregates the caller's tasks.
type TaskStats struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Pending    int            `json:"pending"`
	Overdue    int            `json:"overdue"`
	ByPriority PriorityCounts `json:"byPriority"`
}

// PriorityCounts holds per-priority task counts.
type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// TaskService exposes owner-scoped task operations. The owner id always
// comes from the authenticated caller, never from client input.
type TaskService interface {
	Create(ctx context.Context, ownerID uint, task *model.Task) (*model.Task, error)
	List(ctx context.Context, ownerID uint) ([]model.Task, error)
	Get(ctx context.Context, ownerID uint, id uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, ownerID uint, id uuid.UUID, fields map[string]interface{}) (*model.Task, error)
	Delete(ctx context.Context, ownerID uint, id uuid.UUID) error
	BulkCreate(ctx context.Context, ownerID uint, tasks []model.Task) ([]model.Task, error)
	Stats(ctx context.Context, ownerID uint) (*TaskStats, error)
}

type taskService struct {
	tasks repository.TaskRepository
	cache *cache.Client
}

// NewTaskService builds a TaskService with repository and cache.
func NewTaskService(tasks repository.TaskRepository, cache *cache.Client) TaskService {
	return &taskService{tasks: tasks, cache: cache}
}

func (s *taskService) statsKey(ownerID uint) string {
	return fmt.Sprintf("task_stats:%d", ownerID)
}

func (s *taskService) invalidateStats(ctx context.Context, ownerID uint) {
	_ = s.cache.Delete(ctx, s.statsKey(ownerID))
}

// Create inserts a task owned by the caller. Any owner supplied by the
// client is overwritten.
func (s *taskService) Create(ctx context.Context, ownerID uint, task *model.Task) (*model.Task, error) {
	task.ID = uuid.Nil
	task.OwnerID = ownerID
	if task.Priority == "" {
		task.Priority = model.PriorityLow
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.invalidateStats(ctx, ownerID)
	return task, nil
}

// List returns the caller's tasks, newest-created first.
func (s *taskService) List(ctx context.Context, ownerID uint) ([]model.Task, error) {
	return s.tasks.FindByOwner(ctx, ownerID)
}

func (s *taskService) Get(ctx context.Context, ownerID uint, id uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Update merges fields into the caller's task. A task owned by someone else
// is indistinguishable from a missing one.
func (s *taskService) Update(ctx context.Context, ownerID uint, id uuid.UUID, fields map[string]interface{}) (*model.Task, error) {
	delete(fields, "owner_id")
	task, err := s.tasks.Updates(ctx, ownerID, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.invalidateStats(ctx, ownerID)
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID uint, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	s.invalidateStats(ctx, ownerID)
	return nil
}

// BulkCreate inserts all tasks under the caller's ownership in one batch.
// The batch is all-or-nothing.
func (s *taskService) BulkCreate(ctx context.Context, ownerID uint, tasks []model.Task) ([]model.Task, error) {
	if len(tasks) == 0 {
		return nil, apperrors.ErrEmptyBulk
	}
	for i := range tasks {
		tasks[i].ID = uuid.Nil
		tasks[i].OwnerID = ownerID
		if tasks[i].Priority == "" {
			tasks[i].Priority = model.PriorityLow
		}
	}
	if err := s.tasks.CreateBatch(ctx, tasks); err != nil {
		return nil, fmt.Errorf("bulk create tasks: %w", err)
	}
	s.invalidateStats(ctx, ownerID)
	return tasks, nil
}

// Stats aggregates the caller's tasks. A task is overdue when its due date
// is in the past and it is not completed. Results are cached briefly and
// invalidated by every mutation.
func (s *taskService) Stats(ctx context.Context, ownerID uint) (*TaskStats, error) {
	if data, _ := s.cache.Get(ctx, s.statsKey(ownerID)); data != nil {
		var cached TaskStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	tasks, err := s.tasks.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
			if t.DueDate.Before(now) {
				stats.Overdue++
			}
		}
		switch t.Priority {
		case model.PriorityLow:
			stats.ByPriority.Low++
		case model.PriorityMedium:
			stats.ByPriority.Medium++
		case model.PriorityHigh:
			stats.ByPriority.High++
		}
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, s.statsKey(ownerID), payload, statsCacheTTL)
	}
	return stats, nil
}
