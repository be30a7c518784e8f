package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	apierrors "github.com/codermanagement/task-tracker/internal/errors"
	"github.com/codermanagement/task-tracker/internal/middleware"
	"github.com/codermanagement/task-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error onto the API error envelope.
// Unexpected errors are logged and never exposed to the client.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, validationErr.Message, gin.H{"field": validationErr.Field})
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrTaskNameTaken), errors.Is(err, services.ErrUserNameTaken):
		apierrors.AlreadyExists(c, err.Error())
	case errors.Is(err, services.ErrInvalidAssignee):
		apierrors.InvalidReference(c, "Invalid user id for assignment")
	case errors.Is(err, services.ErrInvalidTransition):
		apierrors.InvalidTransition(c, "A completed task can only be archived")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "Task generation is not configured")
	case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
	default:
		log.Printf("[%s] %s %s failed: %v", middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
		apierrors.InternalError(c, "")
	}
}

// bindFields decodes a JSON object body keeping each field raw, so callers
// can tell an absent field from an explicit null.
func bindFields(c *gin.Context) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil || fields == nil {
		apierrors.BadRequest(c, "Invalid request body")
		return nil, false
	}
	return fields, true
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// optionalString decodes fields[key] when present. Null is rejected.
func optionalString(fields map[string]json.RawMessage, key string) (*string, error) {
	raw, ok := fields[key]
	if !ok {
		return nil, nil
	}

	var value string
	if isNull(raw) || json.Unmarshal(raw, &value) != nil {
		return nil, fmt.Errorf("%s must be a string", key)
	}
	return &value, nil
}
