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

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns visible users, filtered by name and role
func (h *UserHandler) ListUsers(c *gin.Context) {
	input := services.ListUsersInput{Name: c.Query("name")}
	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		input.Role = &r
	}

	var page *utils.PaginationParams
	if params, ok := utils.GetPaginationParams(c); ok {
		page = &params
		input.Pagination = page
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	apierrors.RespondWithSuccess(c, dto.ToUserListResponse(users, total, page), "Found list of users success")
}

// GetUser returns a user with its tasks resolved
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param(constants.ParamID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	apierrors.RespondWithSuccess(c, dto.ToUserDTO(*user), "Find user by ID success")
}

// ListUserTasks returns the tasks assigned to a user
func (h *UserHandler) ListUserTasks(c *gin.Context) {
	userID := c.Param(constants.ParamID)
	tasks, err := h.userService.ListUserTasks(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	apierrors.RespondWithSuccess(c, dto.UserTasksResponse{
		UserID: userID,
		Tasks:  dto.ToTaskListItemDTOs(tasks),
	}, "Find tasks of user success")
}

// CreateUser creates a new user
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Name string          `json:"name"`
		Role models.UserRole `json:"role"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), services.CreateUserInput{
		Name: req.Name,
		Role: req.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	apierrors.RespondWithSuccess(c, dto.ToUserListItemDTO(*user), "Create User Success")
}

// UpdateUser changes a user's name or role. The task set is not writable
// here; assignments go through the task endpoints.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	var input services.UpdateUserInput
	var err error
	if input.Name, err = optionalString(fields, "name"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	role, err := optionalString(fields, "role")
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if role != nil {
		r := models.UserRole(*role)
		input.Role = &r
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param(constants.ParamID), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	apierrors.RespondWithSuccess(c, dto.ToUserListItemDTO(*user), "Update user success")
}

// DeleteUser soft-deletes a user
func (h *UserHandler) DeleteUser(c *gin.Context) {
	user, err := h.userService.DeleteUser(c.Request.Context(), c.Param(constants.ParamID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	apierrors.RespondWithSuccess(c, dto.ToUserListItemDTO(*user), "Delete user success")
}
