package database

import (
	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/models"
)

// grantMissingPermissions adds the listed permissions the role does not hold yet. Grants an
// administrator added to a system role survive reseeding; ids unknown to the catalog are skipped.
func grantMissingPermissions(db *gorm.DB, role *models.Role, permissionIDs []string) error {
	if role == nil || len(permissionIDs) == 0 {
		return nil
	}

	held := db.Table("role_permissions").Select("permission_id").Where("role_id = ?", role.ID)

	var missing []models.Permission
	if err := db.Where("id IN ?", permissionIDs).
		Where("id NOT IN (?)", held).
		Find(&missing).Error; err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}
	return db.Model(role).Association("Permissions").Append(missing)
}
