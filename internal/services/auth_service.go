package services

import (
	"errors"
	"strings"

	"github.com/yamadayuki/task-tracker-api/internal/apperrors"
	"github.com/yamadayuki/task-tracker-api/internal/constants"
	"github.com/yamadayuki/task-tracker-api/internal/models"
	"github.com/yamadayuki/task-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user account. Self-registered accounts always
// get the employee role; admin accounts are issued by an existing admin
// or the bootstrap command.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
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
		Role:         models.RoleEmployee,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, apperrors.Persistence("create user", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("invalid email or password")
		}
		return nil, apperrors.Persistence("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.Validation("invalid email or password")
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Persistence("find user", err)
	}

	return user, nil
}
