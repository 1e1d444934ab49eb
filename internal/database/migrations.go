package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/permissions"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Organization{},
		&models.Client{},
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.UserPermissionOverride{},
		&models.CatalogItem{},
		&models.Ticket{},
		&models.Asset{},
		&models.AuditLog{},
	)
}

// SeedData persists the permission catalog and the shared system roles.
func SeedData(db *gorm.DB) error {
	if err := permissions.Sync(context.Background(), db); err != nil {
		return err
	}

	for _, tmpl := range permissions.SystemRoles() {
		role := models.Role{
			Name:        tmpl.Name,
			Description: tmpl.Description,
			Level:       tmpl.Level,
			Priority:    tmpl.Priority,
			IsSystem:    true,
		}

		var record models.Role
		if err := db.Where("name = ? AND is_system = ? AND organization_id IS NULL", tmpl.Name, true).
			Attrs(role).
			FirstOrCreate(&record).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", tmpl.Name, err)
		}

		if err := grantMissingPermissions(db, &record, tmpl.Permissions); err != nil {
			return fmt.Errorf("seed role %s permissions: %w", tmpl.Name, err)
		}
	}

	return nil
}
