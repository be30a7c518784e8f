package dto

import (
	"time"

	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/codermanagement/task-tracker/internal/utils"
)

// UserDTO represents a user with its task set resolved
type UserDTO struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Role      models.UserRole   `json:"role"`
	Tasks     []TaskListItemDTO `json:"tasks"`
	IsDeleted bool              `json:"isDeleted"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// UserListItemDTO represents a user in list and write responses; tasks are
// ids
type UserListItemDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Role      models.UserRole `json:"role"`
	Tasks     []string        `json:"tasks"`
	IsDeleted bool            `json:"isDeleted"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UserListResponse represents a list of users
type UserListResponse struct {
	Users      []UserListItemDTO         `json:"users"`
	Total      int64                     `json:"total"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// UserTasksResponse represents the task set of one user
type UserTasksResponse struct {
	UserID string            `json:"userId"`
	Tasks  []TaskListItemDTO `json:"tasks"`
}

// ToUserDTO converts a User with resolved Tasks to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Role:      user.Role,
		Tasks:     ToTaskListItemDTOs(user.Tasks),
		IsDeleted: user.IsDeleted,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserListItemDTO converts a User model to UserListItemDTO
func ToUserListItemDTO(user models.User) UserListItemDTO {
	taskIDs := user.TaskIDs
	if taskIDs == nil {
		taskIDs = []string{}
	}
	return UserListItemDTO{
		ID:        user.ID,
		Name:      user.Name,
		Role:      user.Role,
		Tasks:     taskIDs,
		IsDeleted: user.IsDeleted,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserListResponse converts a slice of users to UserListResponse
func ToUserListResponse(users []models.User, total int64, page *utils.PaginationParams) UserListResponse {
	items := make([]UserListItemDTO, len(users))
	for i, user := range users {
		items[i] = ToUserListItemDTO(user)
	}

	resp := UserListResponse{
		Users: items,
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
