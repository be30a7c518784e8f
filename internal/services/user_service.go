package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/codermanagement/task-tracker/internal/repository"
	"github.com/codermanagement/task-tracker/internal/utils"
)

// UserService handles user business logic. It never changes a user's task
// set; that belongs to the assignment engine.
type UserService struct {
	store repository.Store
}

// NewUserService creates a new UserService
func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

// ListUsersInput represents filters for listing users
type ListUsersInput struct {
	Name       string
	Role       *models.UserRole
	Pagination *utils.PaginationParams
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Name string
	Role models.UserRole
}

// UpdateUserInput represents input for updating a user
type UpdateUserInput struct {
	Name *string
	Role *models.UserRole
}

// ListUsers returns visible users matching the filters
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) ([]models.User, int64, error) {
	if input.Role != nil && !input.Role.Valid() {
		return nil, 0, invalid("role", "role must be one of employee, manager")
	}

	users, total, err := s.store.Users().List(ctx, repository.UserFilter{
		Name:       input.Name,
		Role:       input.Role,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// GetUser returns a visible user with its task set resolved to records.
// Soft-deleted tasks stay in the set and are returned flagged.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.findVisible(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.store.Tasks().FindByIDs(ctx, user.TaskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load user tasks: %w", err)
	}
	user.Tasks = tasks

	return user, nil
}

// ListUserTasks returns the resolved task set of a visible user
func (s *UserService) ListUserTasks(ctx context.Context, userID string) ([]models.Task, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Tasks, nil
}

// CreateUser validates and stores a new user. Names are unique across all
// users, deleted ones included.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}

	if input.Role == "" {
		input.Role = models.RoleEmployee
	}
	if !input.Role.Valid() {
		return nil, invalid("role", "role must be one of employee, manager")
	}

	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	user := &models.User{
		Name: name,
		Role: input.Role,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateUser changes a user's name and/or role
func (s *UserService) UpdateUser(ctx context.Context, userID string, input UpdateUserInput) (*models.User, error) {
	if input.Name == nil && input.Role == nil {
		return nil, invalid("body", "at least one of name, role is required")
	}

	patch := repository.UserPatch{Role: input.Role}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, invalid("name", "name cannot be empty")
		}
		patch.Name = &name
	}
	if input.Role != nil && !input.Role.Valid() {
		return nil, invalid("role", "role must be one of employee, manager")
	}

	if _, err := s.findVisible(ctx, userID); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if err := s.ensureNameFree(ctx, *patch.Name, userID); err != nil {
			return nil, err
		}
	}

	if err := s.store.Users().Update(ctx, userID, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.findVisible(ctx, userID)
}

// DeleteUser soft-deletes a visible user. Tasks assigned to the user keep
// their assignedTo reference.
func (s *UserService) DeleteUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.findVisible(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Users().SoftDelete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	user.IsDeleted = true
	return user, nil
}

func (s *UserService) findVisible(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, userID, repository.OnlyVisible)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ensureNameFree fails when another user, deleted or not, holds name.
func (s *UserService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.store.Users().FindByName(ctx, name, repository.IncludeDeleted)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check user name: %w", err)
	}
	if existing.ID != selfID {
		return ErrUserNameTaken
	}
	return nil
}
