package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planify/internal/model"
)

// TaskRepository defines task persistence operations. Every query is scoped
// to an owner id; a task owned by someone else behaves exactly like a
// nonexistent one.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	CreateBatch(ctx context.Context, tasks []model.Task) error
	FindByOwner(ctx context.Context, ownerID uint) ([]model.Task, error)
	FindByID(ctx context.Context, ownerID uint, id uuid.UUID) (*model.Task, error)
	Updates(ctx context.Context, ownerID uint, id uuid.UUID, fields map[string]interface{}) (*model.Task, error)
	Delete(ctx context.Context, ownerID uint, id uuid.UUID) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// CreateBatch inserts all tasks in a single multi-row statement, so the batch
// lands all-or-nothing.
func (r *taskRepository) CreateBatch(ctx context.Context, tasks []model.Task) error {
	return r.db.WithContext(ctx).Create(&tasks).Error
}

func (r *taskRepository) FindByOwner(ctx context.Context, ownerID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) FindByID(ctx context.Context, ownerID uint, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Updates merges fields into the owner's task and returns the updated record.
func (r *taskRepository) Updates(ctx context.Context, ownerID uint, id uuid.UUID, fields map[string]interface{}) (*model.Task, error) {
	task, err := r.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(task).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, ownerID, id)
}

func (r *taskRepository) Delete(ctx context.Context, ownerID uint, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
