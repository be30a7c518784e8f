package repository

import (
	"context"

	"github.com/codermanagement/task-tracker/internal/database"
	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/codermanagement/task-tracker/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) query(ctx context.Context, vis Visibility) *gorm.DB {
	query := r.db.WithContext(ctx)
	if vis == OnlyVisible {
		query = query.Scopes(database.NotDeleted)
	}
	return query
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}
	if user.TaskIDs == nil {
		user.TaskIDs = []string{}
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string, vis Visibility) (*models.User, error) {
	var user models.User
	if err := r.query(ctx, vis).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateGormError(err)
	}
	if err := r.loadTaskIDs(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByName finds a user by exact name
func (r *GormUserRepository) FindByName(ctx context.Context, name string, vis Visibility) (*models.User, error) {
	var user models.User
	if err := r.query(ctx, vis).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, translateGormError(err)
	}
	if err := r.loadTaskIDs(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves visible users with filtering and pagination
func (r *GormUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := r.query(ctx, OnlyVisible).Model(&models.User{})

	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!'", utils.ContainsPattern(filter.Name))
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	users := []models.User{}
	if err := listQuery.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	if err := r.loadTaskIDsForAll(ctx, users); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update updates the fields set in patch
func (r *GormUserRepository) Update(ctx context.Context, id string, patch UserPatch) error {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Role != nil {
		updates["role"] = *patch.Role
	}
	if len(updates) == 0 {
		return nil
	}
	return r.updateColumns(ctx, id, updates)
}

// SoftDelete flags a user as deleted
func (r *GormUserRepository) SoftDelete(ctx context.Context, id string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"is_deleted": true})
}

// AddTask adds a task to the user's set, ignoring duplicates
func (r *GormUserRepository) AddTask(ctx context.Context, userID, taskID string) error {
	link := models.UserTask{UserID: userID, TaskID: taskID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
}

// PullTask removes a task from the user's set
func (r *GormUserRepository) PullTask(ctx context.Context, userID, taskID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		Delete(&models.UserTask{}).Error
}

func (r *GormUserRepository) updateColumns(ctx context.Context, id string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) loadTaskIDs(ctx context.Context, user *models.User) error {
	taskIDs := []string{}
	if err := r.db.WithContext(ctx).
		Model(&models.UserTask{}).
		Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Pluck("task_id", &taskIDs).Error; err != nil {
		return err
	}
	user.TaskIDs = taskIDs
	return nil
}

func (r *GormUserRepository) loadTaskIDsForAll(ctx context.Context, users []models.User) error {
	if len(users) == 0 {
		return nil
	}

	userIDs := make([]string, len(users))
	for i, u := range users {
		userIDs[i] = u.ID
	}

	var links []models.UserTask
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at ASC").
		Find(&links).Error; err != nil {
		return err
	}

	byUser := make(map[string][]string, len(users))
	for _, link := range links {
		byUser[link.UserID] = append(byUser[link.UserID], link.TaskID)
	}
	for i := range users {
		users[i].TaskIDs = byUser[users[i].ID]
		if users[i].TaskIDs == nil {
			users[i].TaskIDs = []string{}
		}
	}
	return nil
}
