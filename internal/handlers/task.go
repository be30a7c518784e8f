package handlers

import (
	"github.com/codermanagement/task-tracker/internal/constants"
	"github.com/codermanagement/task-tracker/internal/dto"
	apierrors "github.com/codermanagement/task-tracker/internal/errors"
	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/codermanagement/task-tracker/internal/services"
	"github.com/codermanagement/task-tracker/internal/utils"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns visible tasks, filtered by name, description and status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := services.ListTasksInput{
		Name:        c.Query("name"),
		Description: c.Query("description"),
	}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}

	var page *utils.PaginationParams
	if params, ok := utils.GetPaginationParams(c); ok {
		page = &params
		input.Pagination = page
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	apierrors.RespondWithSuccess(c, dto.ToTaskListResponse(tasks, total, page), "Found list of tasks success")
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), c.Param(constants.ParamID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	apierrors.RespondWithSuccess(c, dto.ToTaskDTO(*task), "Find task by ID success")
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Name        string            `json:"name"`
		Description string            `json:"description"`
		Status      models.TaskStatus `json:"status"`
		AssignedTo  *string           `json:"assignedTo"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	apierrors.RespondWithSuccess(c, dto.ToTaskDTO(*task), "Create Task Success")
}

// UpdateTask updates fields of a task. assignedTo set to a user id assigns
// the task; set to null it unassigns.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	// Parse raw JSON to detect which fields were sent
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	var input services.UpdateTaskInput
	var err error
	if input.Name, err = optionalString(fields, "name"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.Description, err = optionalString(fields, "description"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	status, err := optionalString(fields, "status")
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if status != nil {
		s := models.TaskStatus(*status)
		input.Status = &s
	}

	if raw, present := fields["assignedTo"]; present {
		if isNull(raw) {
			input.Unassign = true
		} else if input.AssignedTo, err = optionalString(fields, "assignedTo"); err != nil {
			apierrors.BadRequest(c, "assignedTo must be a user id or null")
			return
		}
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), c.Param(constants.ParamID), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	apierrors.RespondWithSuccess(c, dto.ToTaskDTO(*task), "Update new info for task by ID success")
}

// DeleteTask soft-deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, err := h.taskService.DeleteTask(c.Request.Context(), c.Param(constants.ParamID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	apierrors.RespondWithSuccess(c, dto.ToTaskDTO(*task), "Delete task success")
}

// GenerateTasks drafts tasks from free text with AI. Nothing is stored.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{Text: req.Text})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := dto.GeneratedTasksResponse{Tasks: make([]dto.GeneratedTaskDTO, len(drafts))}
	for i, draft := range drafts {
		resp.Tasks[i] = dto.GeneratedTaskDTO{Name: draft.Name, Description: draft.Description}
	}

	apierrors.RespondWithSuccess(c, resp, "Generate tasks success")
}
