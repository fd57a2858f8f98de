package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yamadayuki/task-tracker-api/internal/apperrors"
	"github.com/yamadayuki/task-tracker-api/internal/dto"
	apierrors "github.com/yamadayuki/task-tracker-api/internal/errors"
	"github.com/yamadayuki/task-tracker-api/internal/middleware"
	"github.com/yamadayuki/task-tracker-api/internal/policy"
	"github.com/yamadayuki/task-tracker-api/internal/services"
	"github.com/yamadayuki/task-tracker-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks visible to the current principal with optional
// status/priority filters and, for admins, an assignee filter.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	p, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params, err := utils.ParsePagination(c)
	if err != nil {
		apierrors.Resolve(c, err)
		return
	}

	input := services.ListTasksInput{
		Page:     params.Page,
		Limit:    params.Limit,
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}

	if raw := c.Query("assignee"); raw != "" && p.IsAdmin() {
		assigneeID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee")
			return
		}
		input.AssigneeID = &assigneeID
	}

	tasks, total, err := h.taskService.List(p, input)
	if err != nil {
		apierrors.Resolve(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total, params.Pages(total)))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	p, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(p, taskID)
	if err != nil {
		apierrors.Resolve(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	p, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"dueDate"`
		Assignee    uint64     `json:"assignee"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(p, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssigneeID:  req.Assignee,
	})
	if err != nil {
		apierrors.Resolve(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. The body is parsed as a raw map so
// an explicit null is distinguishable from an absent field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	p, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := buildUpdateInput(p, rawReq)
	if err != nil {
		apierrors.Resolve(c, err)
		return
	}

	task, err := h.taskService.Update(p, taskID, input)
	if err != nil {
		apierrors.Resolve(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask permanently removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	p, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(p, taskID); err != nil {
		apierrors.Resolve(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// SuggestTasks generates task drafts from free text using AI. Drafts are
// returned to the client for review; nothing is persisted.
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	if _, exists := middleware.GetPrincipal(c); !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type SuggestTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.taskService.SuggestTasks(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrAINotConfigured) {
			apierrors.ServiceUnavailable(c, "AI suggestions are not configured")
			return
		}
		apierrors.InternalError(c, "Failed to suggest tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": drafts,
	})
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		// Unparseable ids behave like missing tasks, matching lookups
		// by a well-formed but unknown id.
		apierrors.NotFound(c, "Task not found")
		return 0, false
	}
	return taskID, true
}

// buildUpdateInput converts a raw JSON object into an UpdateTaskInput,
// recording which fields were explicitly present. The assignee field is
// read for admins only; for everyone else it is ignored whatever its
// shape, never rejected.
func buildUpdateInput(p policy.Principal, rawReq map[string]any) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	if raw, ok := rawReq["title"]; ok {
		title, ok := raw.(string)
		if !ok {
			return input, apperrors.Validation("title must be a string")
		}
		input.Title = &title
	}
	if raw, ok := rawReq["description"]; ok {
		description, ok := raw.(string)
		if !ok {
			return input, apperrors.Validation("description must be a string")
		}
		input.Description = &description
	}
	if raw, ok := rawReq["status"]; ok {
		status, ok := raw.(string)
		if !ok {
			return input, apperrors.Validation("invalid status")
		}
		input.Status = &status
	}
	if raw, ok := rawReq["priority"]; ok {
		priority, ok := raw.(string)
		if !ok {
			return input, apperrors.Validation("invalid priority")
		}
		input.Priority = &priority
	}
	if raw, ok := rawReq["dueDate"]; ok {
		if raw == nil {
			input.ClearDueDate = true
		} else {
			str, ok := raw.(string)
			if !ok {
				return input, apperrors.Validation("dueDate must be an ISO8601 string or null")
			}
			parsed, err := time.Parse(time.RFC3339, str)
			if err != nil {
				return input, apperrors.Validation("dueDate must be an ISO8601 string or null")
			}
			input.DueDate = &parsed
		}
	}
	if raw, ok := rawReq["assignee"]; ok && p.IsAdmin() {
		num, ok := raw.(float64)
		if !ok || num < 1 || num != math.Trunc(num) {
			return input, apperrors.Validation("assignee must be a user id")
		}
		assigneeID := uint64(num)
		input.AssigneeID = &assigneeID
	}

	return input, nil
}
