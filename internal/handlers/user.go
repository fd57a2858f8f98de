package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yamadayuki/task-tracker-api/internal/dto"
	apierrors "github.com/yamadayuki/task-tracker-api/internal/errors"
	"github.com/yamadayuki/task-tracker-api/internal/middleware"
	"github.com/yamadayuki/task-tracker-api/internal/services"
)

// UserHandler coordinates user administration HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns all users. Open to any authenticated principal so
// clients can populate assignee pickers; only display fields are exposed.
func (h *UserHandler) ListUsers(c *gin.Context) {
	if _, exists := middleware.GetPrincipal(c); !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	users, err := h.userService.List()
	if err != nil {
		apierrors.Resolve(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
	})
}

// CreateUser creates a user with an explicit role. Admin only.
func (h *UserHandler) CreateUser(c *gin.Context) {
	p, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateUserRequest struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Create(p, services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		apierrors.Resolve(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// DeleteUser removes a user. Admin only; refused while the user is still
// referenced by tasks.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	p, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "User not found")
		return
	}

	if err := h.userService.Delete(p, userID); err != nil {
		apierrors.Resolve(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}
