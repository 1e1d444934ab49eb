package permissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/multierr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/deskward/deskward/internal/models"
)

// ErrCatalogDrift is returned when the persisted permission table disagrees with the in-process catalog.
var ErrCatalogDrift = errors.New("permission: catalog drift")

// Sync persists registered permissions to the backing database.
func Sync(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("permission: db is required")
	}
	ctx = ensureContext(ctx)

	perms := GetAll()
	if len(perms) == 0 {
		return nil
	}

	tx := db.WithContext(ctx)
	for _, perm := range perms {
		dependsJSON, err := json.Marshal(perm.DependsOn)
		if err != nil {
			return fmt.Errorf("permission: marshal depends_on for %s: %w", perm.ID, err)
		}
		impliesJSON, err := json.Marshal(perm.Implies)
		if err != nil {
			return fmt.Errorf("permission: marshal implies for %s: %w", perm.ID, err)
		}

		record := models.Permission{
			BaseModel:   models.BaseModel{ID: perm.ID},
			Resource:    string(perm.Resource),
			Action:      string(perm.Action),
			Scope:       string(perm.Scope),
			Description: perm.Description,
			DependsOn:   string(dependsJSON),
			Implies:     string(impliesJSON),
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"resource", "action", "scope", "description", "depends_on", "implies", "updated_at"}),
		}).Create(&record).Error; err != nil {
			return fmt.Errorf("permission: sync %s: %w", perm.ID, err)
		}
	}

	return nil
}

// ValidateCatalog compares the persisted permissions with the registry. Every stored row must
// parse into a known resource/action and be registered, and every registered permission must
// be stored. All mismatches are reported together.
func ValidateCatalog(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("permission: db is required")
	}
	ctx = ensureContext(ctx)

	if err := ValidateDependencies(); err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogDrift, err)
	}

	var stored []models.Permission
	if err := db.WithContext(ctx).Find(&stored).Error; err != nil {
		return fmt.Errorf("permission: load catalog: %w", err)
	}

	registered := GetAll()
	seen := make(map[string]struct{}, len(stored))

	var errs error
	for _, row := range stored {
		seen[row.ID] = struct{}{}
		if _, _, err := ParseID(row.ID); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, ok := registered[row.ID]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("stored permission %q is not in the catalog", row.ID))
		}
	}

	missing := make([]string, 0)
	for id := range registered {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	for _, id := range missing {
		errs = multierr.Append(errs, fmt.Errorf("catalog permission %q is not persisted", id))
	}

	if errs != nil {
		return fmt.Errorf("%w: %v", ErrCatalogDrift, errs)
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
