package dto

import (
	"time"

	"github.com/yamadayuki/task-tracker-api/internal/models"
)

// UserRefDTO is the populated view of a user reference: display fields
// only, never the credential.
type UserRefDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskDTO represents a populated task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
	Assignee    *UserRefDTO         `json:"assignee"`
	CreatedBy   *UserRefDTO         `json:"createdBy"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// PaginationDTO carries paging metadata for list responses
type PaginationDTO struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// TaskListResponse represents a paginated list of populated tasks
type TaskListResponse struct {
	Tasks      []TaskDTO     `json:"tasks"`
	Pagination PaginationDTO `json:"pagination"`
}

// ToUserRefDTO converts a User model to its populated reference view
func ToUserRefDTO(user models.User) UserRefDTO {
	return UserRefDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include references only if preloaded
	if task.Assignee.ID != 0 {
		assignee := ToUserRefDTO(task.Assignee)
		dto.Assignee = &assignee
	}
	if task.Creator.ID != 0 {
		creator := ToUserRefDTO(task.Creator)
		dto.CreatedBy = &creator
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, limit int, total int64, pages int) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks: items,
		Pagination: PaginationDTO{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}
}
