package services

import (
	"errors"
	"strings"
	"time"

	"github.com/yamadayuki/task-tracker-api/internal/apperrors"
	"github.com/yamadayuki/task-tracker-api/internal/models"
	"github.com/yamadayuki/task-tracker-api/internal/policy"
	"github.com/yamadayuki/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// taskPopulate lists the relations resolved into the populated view.
var taskPopulate = []string{"Assignee", "Creator"}

// TaskService is the task lifecycle manager: it validates payloads,
// consults the policy evaluator, and applies mutations. Validation always
// runs before any write so a rejected request leaves no partial state.
type TaskService struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	aiService *AIService
}

// NewTaskService creates a new TaskService. aiService may be nil when
// task suggestions are not configured.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		aiService: aiService,
	}
}

// ListTasksInput represents filters for listing tasks. Status and
// Priority are raw query values, validated against the enumerated sets.
type ListTasksInput struct {
	Page     int
	Limit    int
	Status   string
	Priority string
	// AssigneeID is honored for admins only; non-admin scopes are already
	// restricted to assignee-or-creator.
	AssigneeID *uint64
}

// CreateTaskInput represents input for creating a task. Status and
// Priority are raw values; empty means "use the default".
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	AssigneeID  uint64
}

// UpdateTaskInput represents a partial update. Nil pointers mean the
// field was absent from the payload and must not change.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
	AssigneeID   *uint64
}

// List returns tasks visible to the principal with the requested filters,
// sorted by creation time descending, plus the unpaginated total.
func (s *TaskService) List(p policy.Principal, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Page:     input.Page,
		PageSize: input.Limit,
	}

	if input.Status != "" {
		status := models.TaskStatus(input.Status)
		if !status.IsValid() {
			return nil, 0, apperrors.Validation("invalid status")
		}
		filter.Status = &status
	}
	if input.Priority != "" {
		priority := models.TaskPriority(input.Priority)
		if !priority.IsValid() {
			return nil, 0, apperrors.Validation("invalid priority")
		}
		filter.Priority = &priority
	}

	scope := policy.ListScope(p)
	if scope.All {
		filter.AssigneeID = input.AssigneeID
	} else {
		filter.VisibleToUserID = &scope.UserID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, apperrors.Persistence("list tasks", err)
	}

	return tasks, total, nil
}

// Get returns a single populated task the principal may view.
func (s *TaskService) Get(p policy.Principal, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID, taskPopulate...)
	if err != nil {
		return nil, err
	}

	if !policy.Can(p, policy.ActionRead, task) {
		return nil, apperrors.Forbidden("you do not have access to this task")
	}

	return task, nil
}

// Create validates the payload and persists a new task. The creator is
// always the principal, regardless of the payload.
func (s *TaskService) Create(p policy.Principal, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}
	if input.AssigneeID == 0 {
		return nil, apperrors.Validation("assignee is required")
	}

	status := models.TaskStatusPending
	if input.Status != "" {
		status = models.TaskStatus(input.Status)
		if !status.IsValid() {
			return nil, apperrors.Validation("invalid status")
		}
	}

	priority := models.TaskPriorityMedium
	if input.Priority != "" {
		priority = models.TaskPriority(input.Priority)
		if !priority.IsValid() {
			return nil, apperrors.Validation("invalid priority")
		}
	}

	if err := s.ensureUserExists(input.AssigneeID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssigneeID:  input.AssigneeID,
		CreatorID:   p.UserID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, apperrors.Persistence("create task", err)
	}

	return s.populate(task.ID)
}

// Update applies the present fields of a partial payload to an existing
// task. Non-admin payloads may not change the assignee; the field is
// dropped silently rather than rejected.
func (s *TaskService) Update(p policy.Principal, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	// Validate everything before authorization and before touching the
	// record, so a rejected payload never reaches storage.
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, apperrors.Validation("title cannot be empty")
	}
	if input.Status != nil && !models.TaskStatus(*input.Status).IsValid() {
		return nil, apperrors.Validation("invalid status")
	}
	if input.Priority != nil && !models.TaskPriority(*input.Priority).IsValid() {
		return nil, apperrors.Validation("invalid priority")
	}

	if !policy.Can(p, policy.ActionUpdate, task) {
		return nil, apperrors.Forbidden("you do not have access to this task")
	}

	if input.AssigneeID != nil && policy.Can(p, policy.ActionChangeAssignee, task) {
		if err := s.ensureUserExists(*input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = *input.AssigneeID
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = models.TaskStatus(*input.Status)
	}
	if input.Priority != nil {
		task.Priority = models.TaskPriority(*input.Priority)
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, apperrors.Persistence("update task", err)
	}

	return s.populate(task.ID)
}

// Delete permanently removes a task. Only the creator or an admin may
// delete; an assignee who is not the creator cannot.
func (s *TaskService) Delete(p policy.Principal, taskID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	if !policy.Can(p, policy.ActionDelete, task) {
		return apperrors.Forbidden("only an admin or the task creator can delete this task")
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return apperrors.Persistence("delete task", err)
	}

	return nil
}

func (s *TaskService) findTask(taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("task")
		}
		return nil, apperrors.Persistence("find task", err)
	}
	return task, nil
}

func (s *TaskService) populate(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskPopulate...)
	if err != nil {
		return nil, apperrors.Persistence("load task", err)
	}
	return task, nil
}

func (s *TaskService) ensureUserExists(userID uint64) error {
	exists, err := s.userRepo.Exists(userID)
	if err != nil {
		return apperrors.Persistence("verify assignee", err)
	}
	if !exists {
		return apperrors.Validation("assignee does not exist")
	}
	return nil
}
