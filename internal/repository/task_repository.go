package repository

import (
	"context"

	"github.com/codermanagement/task-tracker/internal/database"
	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/codermanagement/task-tracker/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) query(ctx context.Context, vis Visibility) *gorm.DB {
	query := r.db.WithContext(ctx)
	if vis == OnlyVisible {
		query = query.Scopes(database.NotDeleted)
	}
	return query
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID with its assignee preloaded
func (r *GormTaskRepository) FindByID(ctx context.Context, id string, vis Visibility) (*models.Task, error) {
	var task models.Task
	if err := r.query(ctx, vis).Preload("Assignee").Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &task, nil
}

// FindByIDs returns the given tasks, newest first, deleted ones included
func (r *GormTaskRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Task, error) {
	tasks := []models.Task{}
	if len(ids) == 0 {
		return tasks, nil
	}

	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByName finds a task by exact name
func (r *GormTaskRepository) FindByName(ctx context.Context, name string, vis Visibility) (*models.Task, error) {
	var task models.Task
	if err := r.query(ctx, vis).Where("name = ?", name).First(&task).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &task, nil
}

// List retrieves visible tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := r.query(ctx, OnlyVisible).Model(&models.Task{})

	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!'", utils.ContainsPattern(filter.Name))
	}
	if filter.Description != "" {
		query = query.Where("LOWER(description) LIKE ? ESCAPE '!'", utils.ContainsPattern(filter.Description))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").Order("updated_at DESC")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	tasks := []models.Task{}
	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Patch updates the fields set in patch
func (r *GormTaskRepository) Patch(ctx context.Context, id string, patch TaskPatch) error {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.ClearAssignee {
		updates["assigned_to"] = nil
	} else if patch.AssignedTo != nil {
		updates["assigned_to"] = *patch.AssignedTo
	}

	if len(updates) == 0 {
		return nil
	}

	return r.updateColumns(ctx, id, updates)
}

// SoftDelete flags a task as deleted
func (r *GormTaskRepository) SoftDelete(ctx context.Context, id string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"is_deleted": true})
}

func (r *GormTaskRepository) updateColumns(ctx context.Context, id string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
