package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codermanagement/task-tracker/internal/assignment"
	"github.com/codermanagement/task-tracker/internal/constants"
	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/codermanagement/task-tracker/internal/repository"
	"github.com/codermanagement/task-tracker/internal/utils"
)

// AssignmentNotifier is told about assignment changes once they are stored.
type AssignmentNotifier interface {
	TaskAssigned(userID string, task *models.Task)
	TaskUnassigned(userID string, task *models.Task)
}

// TaskService handles task business logic
type TaskService struct {
	store    repository.Store
	engine   *assignment.Engine
	drafter  TaskDrafter
	notifier AssignmentNotifier
}

// NewTaskService creates a new TaskService. drafter and notifier may be nil.
func NewTaskService(store repository.Store, drafter TaskDrafter, notifier AssignmentNotifier) *TaskService {
	return &TaskService{
		store:    store,
		engine:   assignment.NewEngine(store),
		drafter:  drafter,
		notifier: notifier,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Name        string
	Description string
	Status      *models.TaskStatus
	Pagination  *utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name        string
	Description string
	Status      models.TaskStatus
	AssignedTo  *string
}

// UpdateTaskInput represents input for updating a task.
// Unassign clears the assignee and takes precedence over AssignedTo.
type UpdateTaskInput struct {
	Name        *string
	Description *string
	Status      *models.TaskStatus
	AssignedTo  *string
	Unassign    bool
}

func (in UpdateTaskInput) isEmpty() bool {
	return in.Name == nil && in.Description == nil && in.Status == nil && in.AssignedTo == nil && !in.Unassign
}

// ListTasks returns visible tasks matching the filters, newest first
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, invalid("status", "status must be one of pending, working, review, done, archive")
	}

	tasks, total, err := s.store.Tasks().List(ctx, repository.TaskFilter{
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		Pagination:  input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a visible task with its assignee
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.store.Tasks().FindByID(ctx, taskID, repository.OnlyVisible)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates and stores a new task. An initial assignee must be
// a visible user before anything is written; it then goes through the
// assignment engine so the user's task set is updated too.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, invalid("description", "description is required")
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.Valid() {
		return nil, invalid("status", "status must be one of pending, working, review, done, archive")
	}
	if input.AssignedTo != nil && !models.IsValidID(*input.AssignedTo) {
		return nil, invalid("assignedTo", "assignedTo must be a valid user id")
	}

	if _, err := s.store.Tasks().FindByName(ctx, name, repository.OnlyVisible); err == nil {
		return nil, ErrTaskNameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check task name: %w", err)
	}

	if input.AssignedTo != nil {
		if _, err := s.store.Users().FindByID(ctx, *input.AssignedTo, repository.OnlyVisible); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidAssignee
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
	}

	task := &models.Task{
		Name:        name,
		Description: description,
		Status:      input.Status,
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Tasks().Create(ctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		if input.AssignedTo == nil {
			return nil
		}
		_, err := assignment.NewEngine(tx).Apply(ctx, *task, assignment.Update{AssignTo: input.AssignedTo})
		return err
	})
	if err != nil {
		return nil, err
	}

	created, err := s.GetTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	if input.AssignedTo != nil {
		s.notifyAssigned(*input.AssignedTo, created)
	}

	return created, nil
}

// UpdateTask applies field changes and assignment changes to a task
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if input.isEmpty() {
		return nil, invalid("body", "at least one of name, description, status, assignedTo is required")
	}

	update := assignment.Update{
		Status:   input.Status,
		Unassign: input.Unassign,
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, invalid("name", "name cannot be empty")
		}
		update.Name = &name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, invalid("description", "description cannot be empty")
		}
		update.Description = &description
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, invalid("status", "status must be one of pending, working, review, done, archive")
	}
	if !input.Unassign && input.AssignedTo != nil {
		if !models.IsValidID(*input.AssignedTo) {
			return nil, invalid("assignedTo", "assignedTo must be a valid user id")
		}
		update.AssignTo = input.AssignedTo
	}

	current, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	plan, err := s.engine.Apply(ctx, *current, update)
	if err != nil {
		if errors.Is(err, assignment.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	updated, err := s.store.Tasks().FindByID(ctx, taskID, repository.IncludeDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	if plan.Release != "" {
		s.notifyUnassigned(plan.Release, updated)
	}
	if plan.Claim != "" && !current.IsAssignedTo(plan.Claim) {
		s.notifyAssigned(plan.Claim, updated)
	}

	return updated, nil
}

// DeleteTask soft-deletes a visible task. The assignee's task set keeps
// the id.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Tasks().SoftDelete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	task.IsDeleted = true
	return task, nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	Text string
}

// GenerateTasks uses AI to draft tasks from text. Drafts are not stored.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, invalid("text", "text is required")
	}
	if len(text) > constants.MaxDraftSourceChars {
		return nil, invalid("text", fmt.Sprintf("text must be at most %d characters", constants.MaxDraftSourceChars))
	}

	aiTasks, err := s.drafter.DraftTasks(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	seen := make(map[string]struct{}, len(aiTasks))
	for _, aiTask := range aiTasks {
		aiTask.Name = strings.TrimSpace(aiTask.Name)
		aiTask.Description = strings.TrimSpace(aiTask.Description)
		if aiTask.Name == "" || aiTask.Description == "" {
			continue
		}
		if _, dup := seen[aiTask.Name]; dup {
			continue
		}
		seen[aiTask.Name] = struct{}{}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) notifyAssigned(userID string, task *models.Task) {
	if s.notifier != nil {
		s.notifier.TaskAssigned(userID, task)
	}
}

func (s *TaskService) notifyUnassigned(userID string, task *models.Task) {
	if s.notifier != nil {
		s.notifier.TaskUnassigned(userID, task)
	}
}
