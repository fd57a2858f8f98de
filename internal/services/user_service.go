package services

import (
	"errors"
	"strings"

	"github.com/yamadayuki/task-tracker-api/internal/apperrors"
	"github.com/yamadayuki/task-tracker-api/internal/constants"
	"github.com/yamadayuki/task-tracker-api/internal/models"
	"github.com/yamadayuki/task-tracker-api/internal/policy"
	"github.com/yamadayuki/task-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles user administration. Listing is open to any
// authenticated user (assignee pickers need it); creation with an
// explicit role and deletion are admin-only.
type UserService struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, taskRepo repository.TaskRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

// List returns all users.
func (s *UserService) List() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, apperrors.Persistence("list users", err)
	}
	return users, nil
}

// CreateUserInput represents an admin-issued user creation.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Create creates a user with an explicit role. Admin only.
func (s *UserService) Create(p policy.Principal, input CreateUserInput) (*models.User, error) {
	if !p.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can create users")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}

	if len(input.Password) < constants.MinPasswordLength {
		return nil, apperrors.Validation("password must be at least %d characters", constants.MinPasswordLength)
	}

	role := models.RoleEmployee
	if input.Role != "" {
		role = models.Role(input.Role)
		if !role.IsValid() {
			return nil, apperrors.Validation("invalid role")
		}
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, apperrors.Conflict("a user with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Persistence("check email", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Persistence("hash password", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, apperrors.Persistence("create user", err)
	}

	return user, nil
}

// Delete removes a user. Admin only. A user who is still the assignee or
// creator of any task cannot be deleted; callers must reassign or delete
// those tasks first. This keeps task references valid at all times.
func (s *UserService) Delete(p policy.Principal, userID uint64) error {
	if !p.IsAdmin() {
		return apperrors.Forbidden("only admins can delete users")
	}
	if p.UserID == userID {
		return apperrors.Validation("you cannot delete your own account")
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user")
		}
		return apperrors.Persistence("find user", err)
	}

	referenced, err := s.taskRepo.CountReferencingUser(userID)
	if err != nil {
		return apperrors.Persistence("check task references", err)
	}
	if referenced > 0 {
		return apperrors.Conflict("user is still assigned to or creator of existing tasks")
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return apperrors.Persistence("delete user", err)
	}

	return nil
}
