// Command createadmin bootstraps an admin account. Self-registration only
// issues employee accounts, so the first admin has to be created out of
// band with this tool.
//
//	createadmin <name> <email> <password>
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yamadayuki/task-tracker-api/internal/config"
	"github.com/yamadayuki/task-tracker-api/internal/database"
	"github.com/yamadayuki/task-tracker-api/internal/models"
	"github.com/yamadayuki/task-tracker-api/internal/repository"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "Usage: createadmin <name> <email> <password>")
		os.Exit(1)
	}
	name, email, password := os.Args[1], strings.ToLower(strings.TrimSpace(os.Args[2])), os.Args[3]

	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database.GetDB())

	existing, err := userRepo.FindByEmail(email)
	if err == nil {
		log.Printf("User with email %s already exists (role: %s)", email, existing.Role)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check existing user: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin,
	}
	if err := userRepo.Create(admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin user created: %s", email)
}
