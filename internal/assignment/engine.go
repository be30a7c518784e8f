// Package assignment keeps the two sides of the task/user relation in step.
//
// A task's assignedTo field and the owning user's task set are always
// changed together: Plan works out which user loses the task and which
// gains it, and Apply performs those writes plus the task patch as one
// unit of work on the store.
package assignment

import (
	"context"
	"errors"
	"fmt"

	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/codermanagement/task-tracker/internal/repository"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrUnknownAssignee   = errors.New("assignee does not exist")
	ErrInvalidTransition = errors.New("a done task can only be archived")
)

// Update is a requested change to a task. Nil fields are left untouched.
// AssignTo and Unassign are mutually exclusive; Unassign wins when both
// are set.
type Update struct {
	Name        *string
	Description *string
	Status      *models.TaskStatus
	AssignTo    *string
	Unassign    bool
}

// Plan is the set of writes needed to apply an Update.
type Plan struct {
	// Release is the user whose task set loses the task, if any.
	Release string
	// Claim is the user whose task set gains the task, if any.
	Claim string
	// Patch holds the task's own field changes.
	Patch repository.TaskPatch
}

// Changed reports whether applying the plan writes anything.
func (p Plan) Changed() bool {
	return p.Release != "" || p.Claim != "" || !p.Patch.IsEmpty()
}

// Build computes the plan for applying u to the task snapshot current.
// It performs no I/O.
func Build(current models.Task, u Update) (Plan, error) {
	if current.IsDeleted {
		return Plan{}, ErrTaskNotFound
	}
	if current.Status == models.TaskStatusDone && u.Status != nil && *u.Status != models.TaskStatusArchive {
		return Plan{}, ErrInvalidTransition
	}

	plan := Plan{
		Patch: repository.TaskPatch{
			Name:        u.Name,
			Description: u.Description,
			Status:      u.Status,
		},
	}

	switch {
	case u.Unassign:
		if current.AssignedTo != nil {
			plan.Release = *current.AssignedTo
			plan.Patch.ClearAssignee = true
		}
	case u.AssignTo != nil:
		target := *u.AssignTo
		if current.AssignedTo != nil && *current.AssignedTo != target {
			plan.Release = *current.AssignedTo
		}
		// Claiming an already held task re-adds it to the set, which also
		// repairs a set that lost the id.
		plan.Claim = target
		plan.Patch.AssignedTo = &target
	}

	return plan, nil
}

// Engine applies assignment plans against a store.
type Engine struct {
	store repository.Store
}

// NewEngine creates an Engine over store
func NewEngine(store repository.Store) *Engine {
	return &Engine{store: store}
}

// Apply plans u against current and writes the result. Nothing is written
// when planning or assignee resolution fails.
func (e *Engine) Apply(ctx context.Context, current models.Task, u Update) (Plan, error) {
	plan, err := Build(current, u)
	if err != nil {
		return Plan{}, err
	}

	if plan.Claim != "" {
		if _, err := e.store.Users().FindByID(ctx, plan.Claim, repository.OnlyVisible); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return Plan{}, ErrUnknownAssignee
			}
			return Plan{}, fmt.Errorf("failed to resolve assignee: %w", err)
		}
	}

	if !plan.Changed() {
		return plan, nil
	}

	err = e.store.Transaction(ctx, func(tx repository.Store) error {
		if plan.Release != "" {
			if err := tx.Users().PullTask(ctx, plan.Release, current.ID); err != nil {
				return fmt.Errorf("failed to release task from user %s: %w", plan.Release, err)
			}
		}
		if plan.Claim != "" {
			if err := tx.Users().AddTask(ctx, plan.Claim, current.ID); err != nil {
				return fmt.Errorf("failed to add task to user %s: %w", plan.Claim, err)
			}
		}
		if !plan.Patch.IsEmpty() {
			if err := tx.Tasks().Patch(ctx, current.ID, plan.Patch); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrTaskNotFound
				}
				return fmt.Errorf("failed to update task: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Plan{}, err
	}

	return plan, nil
}
