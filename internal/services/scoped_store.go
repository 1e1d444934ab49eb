package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/tenancy"
)

// scopedStore performs reads that are always restricted to one organization.
type scopedStore[T models.TenantScoped] struct {
	db   *gorm.DB
	name string
}

func newScopedStore[T models.TenantScoped](db *gorm.DB, name string) scopedStore[T] {
	return scopedStore[T]{db: db, name: name}
}

// FindScoped loads the row with id inside organizationID. Rows of other organizations are
// reported exactly like missing rows.
func (s scopedStore[T]) FindScoped(ctx context.Context, id, organizationID string) (*T, error) {
	ctx = ensureContext(ctx)

	id = strings.TrimSpace(id)
	organizationID = strings.TrimSpace(organizationID)
	if id == "" || organizationID == "" {
		return nil, fmt.Errorf("%s %q: %w", s.name, id, tenancy.ErrNotFound)
	}

	var row T
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %q: %w", s.name, id, tenancy.ErrNotFound)
		}
		return nil, fmt.Errorf("%s service: find %s: %w", s.name, id, err)
	}
	return &row, nil
}

// list returns a page of rows of organizationID ordered newest first.
func (s scopedStore[T]) list(ctx context.Context, organizationID string, page, perPage int, filter func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	ctx = ensureContext(ctx)
	page, perPage = normalisePage(page, perPage)

	var (
		rows  []T
		total int64
		model T
	)

	query := s.db.WithContext(ctx).Model(&model).Where("organization_id = ?", organizationID)
	if filter != nil {
		query = filter(query)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%s service: count: %w", s.name, err)
	}
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("%s service: list: %w", s.name, err)
	}
	return rows, total, nil
}

// belongs reports whether a row of table with id exists inside organizationID.
func belongs(ctx context.Context, db *gorm.DB, model any, id, organizationID string) (bool, error) {
	var count int64
	if err := db.WithContext(ensureContext(ctx)).
		Model(model).
		Where("id = ? AND organization_id = ?", id, organizationID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
