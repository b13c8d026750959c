// Package store is the row store: subjects and claims persisted through
// gorm. All operations fail atomically - a batch insert either lands whole
// or not at all.
package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aandrewsv/health-claims-verifier/internal/model"
)

// ErrSubjectNotFound indicates a subject row could not be found.
var ErrSubjectNotFound = errors.New("subject not found")

// Connect establishes a postgres connection
func Connect(cfg model.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.DBName, cfg.SSLMode,
	)
	if cfg.Password != "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for all persisted models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Subject{}, &model.Claim{}); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
