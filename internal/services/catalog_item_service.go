package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/models"
	apperrors "github.com/deskward/deskward/pkg/errors"
)

// CreateCatalogItemInput carries the fields of a new service catalog entry.
type CreateCatalogItemInput struct {
	OrganizationID string
	Name           string
	Category       string
	SLAHours       int
}

// CatalogItemService stores the service catalog of each organization.
type CatalogItemService struct {
	db    *gorm.DB
	store scopedStore[models.CatalogItem]
}

// NewCatalogItemService constructs a CatalogItemService.
func NewCatalogItemService(db *gorm.DB) (*CatalogItemService, error) {
	if db == nil {
		return nil, errors.New("catalog item service: db is required")
	}
	return &CatalogItemService{db: db, store: newScopedStore[models.CatalogItem](db, "catalog item")}, nil
}

// FindScoped loads a catalog item inside an organization.
func (s *CatalogItemService) FindScoped(ctx context.Context, id, organizationID string) (*models.CatalogItem, error) {
	return s.store.FindScoped(ctx, id, organizationID)
}

// List returns a page of catalog items.
func (s *CatalogItemService) List(ctx context.Context, organizationID, category string, page, perPage int) ([]models.CatalogItem, int64, error) {
	return s.store.list(ctx, organizationID, page, perPage, func(q *gorm.DB) *gorm.DB {
		if category = strings.TrimSpace(category); category != "" {
			q = q.Where("category = ?", category)
		}
		return q
	})
}

// Create persists a catalog item.
func (s *CatalogItemService) Create(ctx context.Context, input CreateCatalogItemInput) (*models.CatalogItem, error) {
	ctx = ensureContext(ctx)

	orgID := strings.TrimSpace(input.OrganizationID)
	name := strings.TrimSpace(input.Name)
	if orgID == "" {
		return nil, apperrors.NewBadRequest("organizationId is required")
	}
	if name == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}

	item := &models.CatalogItem{
		OrganizationID: orgID,
		Name:           name,
		Category:       strings.TrimSpace(input.Category),
		SLAHours:       input.SLAHours,
		Active:         true,
	}
	if item.SLAHours <= 0 {
		item.SLAHours = 24
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("catalog item service: create: %w", err)
	}
	return item, nil
}
