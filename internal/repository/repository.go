package repository

import (
	"context"
	"errors"

	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/codermanagement/task-tracker/internal/utils"
)

// ErrNotFound is returned by every backend when a lookup matches nothing.
var ErrNotFound = errors.New("repository: record not found")

// Visibility selects whether soft-deleted records take part in a read.
// Every lookup and list goes through it so the soft-delete rule lives in
// one place.
type Visibility int

const (
	// OnlyVisible hides records whose isDeleted flag is set.
	OnlyVisible Visibility = iota
	// IncludeDeleted addresses records regardless of the flag; used for
	// internal consistency work and uniqueness checks.
	IncludeDeleted
)

// Store bundles the repositories taking part in one unit of work.
type Store interface {
	Tasks() TaskRepository
	Users() UserRepository

	// Transaction runs fn against a Store whose writes commit together
	// where the backend supports it. An error from fn aborts the rest.
	Transaction(ctx context.Context, fn func(Store) error) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a task, filling its id and timestamps
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by id with its assignee populated
	FindByID(ctx context.Context, id string, vis Visibility) (*models.Task, error)

	// FindByIDs returns the tasks with the given ids, newest first.
	// Soft-deleted tasks are included.
	FindByIDs(ctx context.Context, ids []string) ([]models.Task, error)

	// FindByName finds a task with exactly this name
	FindByName(ctx context.Context, name string, vis Visibility) (*models.Task, error)

	// List retrieves visible tasks with filtering and optional pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Patch applies a partial update
	Patch(ctx context.Context, id string, patch TaskPatch) error

	// SoftDelete sets the isDeleted flag
	SoftDelete(ctx context.Context, id string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Name        string
	Description string
	Status      *models.TaskStatus
	Pagination  *utils.PaginationParams
}

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Name          *string
	Description   *string
	Status        *models.TaskStatus
	AssignedTo    *string
	ClearAssignee bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil && p.AssignedTo == nil && !p.ClearAssignee
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a user, filling its id and timestamps
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by id with TaskIDs filled
	FindByID(ctx context.Context, id string, vis Visibility) (*models.User, error)

	// FindByName finds a user with exactly this name
	FindByName(ctx context.Context, name string, vis Visibility) (*models.User, error)

	// List retrieves visible users with filtering and optional pagination
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)

	// Update applies a partial update
	Update(ctx context.Context, id string, patch UserPatch) error

	// SoftDelete sets the isDeleted flag
	SoftDelete(ctx context.Context, id string) error

	// AddTask adds taskID to the user's task set; a no-op when present
	AddTask(ctx context.Context, userID, taskID string) error

	// PullTask removes taskID from the user's task set; a no-op when absent
	PullTask(ctx context.Context, userID, taskID string) error
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Name       string
	Role       *models.UserRole
	Pagination *utils.PaginationParams
}

// UserPatch is a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Name *string
	Role *models.UserRole
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Role == nil
}
