package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/taskboard/internal/models"
)

var DB *gorm.DB

// Initialize sets up the database connection and runs migrations.
// The handle is stored in DB and reused for the lifetime of the process;
// callers must never open their own connection per request.
func Initialize(dbPath string) error {
	// Ensure the directory exists (":memory:" has none)
	if dir := filepath.Dir(dbPath); dbPath != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create taskboard directory: %w", err)
		}
	}

	// Open database connection
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = db

	// Run auto-migrations
	if err := runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// DefaultPath returns the path to the SQLite database file
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".taskboard", "taskboard.db"), nil
}

// runMigrations creates/updates the database schema
func runMigrations() error {
	return DB.AutoMigrate(
		&models.Category{},
		&models.Task{},
	)
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
