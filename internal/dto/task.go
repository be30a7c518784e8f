package dto

import (
	"time"

	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/codermanagement/task-tracker/internal/utils"
)

// AssigneeDTO is the populated assignedTo reference of a task
type AssigneeDTO struct {
	ID   string          `json:"id"`
	Name string          `json:"name,omitempty"`
	Role models.UserRole `json:"role,omitempty"`
}

// TaskDTO represents a task in single-task responses
type TaskDTO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	AssignedTo  *AssigneeDTO      `json:"assignedTo"`
	IsDeleted   bool              `json:"isDeleted"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// TaskListItemDTO represents a task in list responses; the assignee is
// left as an id
type TaskListItemDTO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	AssignedTo  *string           `json:"assignedTo"`
	IsDeleted   bool              `json:"isDeleted"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// TaskListResponse represents a list of tasks. Pagination is set only
// when the request asked for a page.
type TaskListResponse struct {
	Tasks      []TaskListItemDTO         `json:"tasks"`
	Total      int64                     `json:"total"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// GeneratedTaskDTO is an AI drafted task that has not been stored
type GeneratedTaskDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GeneratedTasksResponse wraps the drafts returned by task generation
type GeneratedTasksResponse struct {
	Tasks []GeneratedTaskDTO `json:"tasks"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Status:      task.Status,
		IsDeleted:   task.IsDeleted,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Prefer the preloaded assignee; fall back to the bare reference
	switch {
	case task.Assignee != nil:
		dto.AssignedTo = &AssigneeDTO{
			ID:   task.Assignee.ID,
			Name: task.Assignee.Name,
			Role: task.Assignee.Role,
		}
	case task.AssignedTo != nil:
		dto.AssignedTo = &AssigneeDTO{ID: *task.AssignedTo}
	}

	return dto
}

// ToTaskListItemDTO converts a Task model to TaskListItemDTO
func ToTaskListItemDTO(task models.Task) TaskListItemDTO {
	return TaskListItemDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Status:      task.Status,
		AssignedTo:  task.AssignedTo,
		IsDeleted:   task.IsDeleted,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListItemDTOs converts a slice of tasks, never returning nil
func ToTaskListItemDTOs(tasks []models.Task) []TaskListItemDTO {
	items := make([]TaskListItemDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskListItemDTO(task)
	}
	return items
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, total int64, page *utils.PaginationParams) TaskListResponse {
	resp := TaskListResponse{
		Tasks: ToTaskListItemDTOs(tasks),
		Total: total,
	}
	if page != nil {
		resp.Pagination = &utils.PaginationResponse{
			Page:  page.Page,
			Limit: page.Limit,
			Total: total,
		}
	}
	return resp
}
