package database

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/permissions"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)

	if err := db.Exec("SELECT 1").Error; err != nil {
		t.Fatalf("expected health query to succeed: %v", err)
	}
}

func TestOpenSQLiteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deskward.db")

	db, err := Open(Config{Driver: "sqlite", Path: path})
	if err != nil {
		t.Fatalf("open file database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	defer sqlDB.Close()

	if err := db.Exec("SELECT 1").Error; err != nil {
		t.Fatalf("expected health query to succeed: %v", err)
	}
}

func TestAutoMigrateAndSeedData(t *testing.T) {
	db := openTestDB(t)

	if err := AutoMigrateAndSeed(db); err != nil {
		t.Fatalf("auto migrate and seed failed: %v", err)
	}

	var roleCount int64
	if err := db.Model(&models.Role{}).Where("is_system = ?", true).Count(&roleCount).Error; err != nil {
		t.Fatalf("count roles: %v", err)
	}
	if int(roleCount) != len(permissions.SystemRoles()) {
		t.Fatalf("expected %d system roles, got %d", len(permissions.SystemRoles()), roleCount)
	}

	var permissionCount int64
	if err := db.Model(&models.Permission{}).Count(&permissionCount).Error; err != nil {
		t.Fatalf("count permissions: %v", err)
	}
	if int(permissionCount) != len(permissions.GetAll()) {
		t.Fatalf("expected %d permissions, got %d", len(permissions.GetAll()), permissionCount)
	}

	var agent models.Role
	if err := db.Preload("Permissions").Where("name = ? AND is_system = ?", permissions.RoleAgent, true).First(&agent).Error; err != nil {
		t.Fatalf("load agent role: %v", err)
	}
	if len(agent.Permissions) == 0 {
		t.Fatalf("expected agent role to carry permissions")
	}
}

func TestSeedDataIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 2; i++ {
		if err := AutoMigrateAndSeed(db); err != nil {
			t.Fatalf("seed run %d failed: %v", i+1, err)
		}
	}

	var roleCount int64
	if err := db.Model(&models.Role{}).Count(&roleCount).Error; err != nil {
		t.Fatalf("count roles: %v", err)
	}
	if int(roleCount) != len(permissions.SystemRoles()) {
		t.Fatalf("expected seed to be idempotent, got %d roles", roleCount)
	}

	var links int64
	if err := db.Table("role_permissions").Count(&links).Error; err != nil {
		t.Fatalf("count role permissions: %v", err)
	}
	expected := 0
	for _, role := range permissions.SystemRoles() {
		expected += len(role.Permissions)
	}
	if int(links) != expected {
		t.Fatalf("expected %d role permission links, got %d", expected, links)
	}
}

func TestReseedKeepsAddedGrants(t *testing.T) {
	db := openTestDB(t)
	if err := AutoMigrateAndSeed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var agent models.Role
	if err := db.Preload("Permissions").Where("name = ? AND is_system = ?", permissions.RoleAgent, true).First(&agent).Error; err != nil {
		t.Fatalf("load agent role: %v", err)
	}
	held := make(map[string]bool, len(agent.Permissions))
	for _, perm := range agent.Permissions {
		held[perm.ID] = true
	}

	extraID := ""
	for id := range permissions.GetAll() {
		if !held[id] {
			extraID = id
			break
		}
	}
	if extraID == "" {
		t.Skip("agent role already holds every permission")
	}
	var extra models.Permission
	if err := db.First(&extra, "id = ?", extraID).Error; err != nil {
		t.Fatalf("load permission %s: %v", extraID, err)
	}
	if err := db.Model(&agent).Association("Permissions").Append(&extra); err != nil {
		t.Fatalf("grant extra permission: %v", err)
	}

	if err := SeedData(db); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	count := db.Model(&agent).Association("Permissions").Count()
	if int(count) != len(agent.Permissions)+1 {
		t.Fatalf("expected %d permissions after reseed, got %d", len(agent.Permissions)+1, count)
	}
}

func TestAutoMigrateCreatesTenantTables(t *testing.T) {
	db := openTestDB(t)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	migrator := db.Migrator()
	tables := []interface{}{
		&models.Organization{},
		&models.Client{},
		&models.Ticket{},
		&models.Asset{},
		&models.CatalogItem{},
		&models.UserPermissionOverride{},
		&models.AuditLog{},
	}
	for _, table := range tables {
		if !migrator.HasTable(table) {
			t.Fatalf("expected table for %T to exist", table)
		}
	}
	if !migrator.HasColumn(&models.Ticket{}, "organization_id") {
		t.Fatalf("expected tickets.organization_id column")
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := Open(Config{Driver: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
