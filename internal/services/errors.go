package services

import (
	"errors"

	"github.com/codermanagement/task-tracker/internal/assignment"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrTaskNameTaken = errors.New("a task with this name already exists")
	ErrUserNameTaken = errors.New("a user with this name already exists")

	ErrInvalidAssignee   = assignment.ErrUnknownAssignee
	ErrInvalidTransition = assignment.ErrInvalidTransition

	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// ValidationError reports a request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
