/*
 * @module service/database/migrate
 * @description Database migration: creates and updates the NDI schema from
 *              the model definitions.
 * @architecture Data access layer - migration management
 * @stateFlow executed once at application startup, before seeding
 * @rules Schema always follows the model structs; no hand-written DDL
 * @dependencies ndi-assessment-service/service/models, gorm.io/gorm
 */

package database

import (
	"log/slog"

	"ndi-assessment-service/service/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table of the service.
func AutoMigrate(db *gorm.DB) error {
	slog.Info("running database migration")

	// Taxonomy tables.
	err := db.AutoMigrate(
		&models.Domain{},
		&models.Question{},
		&models.MaturityLevel{},
		&models.AcceptanceEvidence{},
		&models.Specification{},
	)
	if err != nil {
		return err
	}

	// Assessment tables.
	err = db.AutoMigrate(
		&models.Assessment{},
		&models.AssessmentResponse{},
		&models.Evidence{},
	)
	if err != nil {
		return err
	}

	// Platform tables.
	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.OrganizationSettings{},
		&models.Setting{},
		&models.AIProviderConfig{},
	)
	if err != nil {
		return err
	}

	slog.Info("database migration complete")
	return nil
}
