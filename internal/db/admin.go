package db

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/troophq/packtrack/internal/auth"
	"github.com/troophq/packtrack/internal/models"
	"gorm.io/gorm"
)

// CreateDefaultAdmin creates an initial admin user if ADMIN_USERNAME and
// ADMIN_PASSWORD are set and no users exist in the database.
func CreateDefaultAdmin(db *gorm.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	email := os.Getenv("ADMIN_EMAIL")

	// If no admin credentials provided, skip
	if username == "" || password == "" {
		slog.Info("No ADMIN_USERNAME or ADMIN_PASSWORD set, skipping default admin creation")
		return nil
	}

	if email == "" {
		email = fmt.Sprintf("%s@packtrack.local", username)
	}

	// Check if any users exist
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		slog.Info("Users already exist, skipping default admin creation")
		return nil
	}

	return CreateAdmin(db, username, email, password)
}

// CreateAdmin inserts an admin user with the given credentials.
func CreateAdmin(db *gorm.DB, username, email, password string) error {
	if len(password) < auth.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	slog.Info("Admin user created", "user_id", user.ID, "username", username, "email", email)
	return nil
}
