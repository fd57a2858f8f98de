package repository

import (
	"github.com/yamadayuki/task-tracker-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination, newest first
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete permanently removes a task
	Delete(id uint64) error

	// CountReferencingUser counts tasks where the user is assignee or creator
	CountReferencingUser(userID uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// VisibleToUserID, when set, restricts results to tasks where the
	// user is assignee or creator. Nil means no visibility restriction.
	VisibleToUserID *uint64

	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssigneeID *uint64

	Page     int
	PageSize int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns all users, oldest first
	List() ([]models.User, error)

	// Delete permanently removes a user
	Delete(id uint64) error

	// Exists reports whether a user with the given ID exists
	Exists(id uint64) (bool, error)
}
