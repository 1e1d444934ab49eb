package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/models"
	apperrors "github.com/deskward/deskward/pkg/errors"
)

// CreateAssetInput carries the fields of a new asset.
type CreateAssetInput struct {
	OrganizationID string
	ClientID       *string
	Name           string
	Tag            string
	Kind           string
	AssignedToID   *string
	Specs          map[string]any
}

// AssetService stores client hardware and software assets.
type AssetService struct {
	db    *gorm.DB
	store scopedStore[models.Asset]
}

// NewAssetService constructs an AssetService.
func NewAssetService(db *gorm.DB) (*AssetService, error) {
	if db == nil {
		return nil, errors.New("asset service: db is required")
	}
	return &AssetService{db: db, store: newScopedStore[models.Asset](db, "asset")}, nil
}

// FindScoped loads an asset inside an organization.
func (s *AssetService) FindScoped(ctx context.Context, id, organizationID string) (*models.Asset, error) {
	return s.store.FindScoped(ctx, id, organizationID)
}

// List returns a page of assets, optionally narrowed to one client.
func (s *AssetService) List(ctx context.Context, organizationID, clientID string, page, perPage int) ([]models.Asset, int64, error) {
	return s.store.list(ctx, organizationID, page, perPage, func(q *gorm.DB) *gorm.DB {
		if clientID = strings.TrimSpace(clientID); clientID != "" {
			q = q.Where("client_id = ?", clientID)
		}
		return q
	})
}

// Create persists an asset.
func (s *AssetService) Create(ctx context.Context, input CreateAssetInput) (*models.Asset, error) {
	ctx = ensureContext(ctx)

	orgID := strings.TrimSpace(input.OrganizationID)
	name := strings.TrimSpace(input.Name)
	if orgID == "" {
		return nil, apperrors.NewBadRequest("organizationId is required")
	}
	if name == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}

	asset := &models.Asset{
		OrganizationID: orgID,
		ClientID:       optionalString(input.ClientID),
		Name:           name,
		Tag:            strings.TrimSpace(input.Tag),
		Kind:           strings.TrimSpace(input.Kind),
		AssignedToID:   optionalString(input.AssignedToID),
	}
	if len(input.Specs) > 0 {
		encoded, err := json.Marshal(input.Specs)
		if err != nil {
			return nil, fmt.Errorf("asset service: marshal specs: %w", err)
		}
		asset.Specs = datatypes.JSON(encoded)
	}

	if asset.ClientID != nil {
		ok, err := belongs(ctx, s.db, &models.Client{}, *asset.ClientID, orgID)
		if err != nil {
			return nil, fmt.Errorf("asset service: check client: %w", err)
		}
		if !ok {
			return nil, ErrForeignReference.WithMessage("clientId does not belong to this organization")
		}
	}

	if err := s.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, fmt.Errorf("asset service: create: %w", err)
	}
	return asset, nil
}
