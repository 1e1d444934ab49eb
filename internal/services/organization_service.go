package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/models"
	apperrors "github.com/deskward/deskward/pkg/errors"
)

var (
	// ErrOrganizationNotFound indicates the organization does not exist.
	ErrOrganizationNotFound = apperrors.New("ORGANIZATION_NOT_FOUND", "Organization not found", http.StatusNotFound)
	// ErrSlugTaken indicates another organization already uses the slug.
	ErrSlugTaken = apperrors.New("ORGANIZATION_SLUG_TAKEN", "Organization slug already in use", http.StatusConflict)
)

// CreateOrganizationInput describes a new tenant.
type CreateOrganizationInput struct {
	Name     string
	Slug     string
	Settings map[string]any
}

// OrganizationService manages tenants and their client companies.
type OrganizationService struct {
	db *gorm.DB
}

// NewOrganizationService constructs an OrganizationService.
func NewOrganizationService(db *gorm.DB) (*OrganizationService, error) {
	if db == nil {
		return nil, errors.New("organization service: db is required")
	}
	return &OrganizationService{db: db}, nil
}

// Create persists a new organization.
func (s *OrganizationService) Create(ctx context.Context, input CreateOrganizationInput) (*models.Organization, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		slug = strings.ToLower(strings.Join(strings.Fields(name), "-"))
	}

	org := &models.Organization{Name: name, Slug: slug}
	if input.Settings != nil {
		encoded, err := json.Marshal(input.Settings)
		if err != nil {
			return nil, fmt.Errorf("organization service: marshal settings: %w", err)
		}
		org.Settings = datatypes.JSON(encoded)
	}

	if err := s.db.WithContext(ctx).Create(org).Error; err != nil {
		return nil, createError("organization service: create", err, ErrSlugTaken)
	}
	return org, nil
}

// GetByID loads an organization.
func (s *OrganizationService) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	ctx = ensureContext(ctx)

	var org models.Organization
	if err := s.db.WithContext(ctx).First(&org, "id = ?", strings.TrimSpace(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("organization service: get %s: %w", id, err)
	}
	return &org, nil
}

// CreateClient adds a client company to an organization.
func (s *OrganizationService) CreateClient(ctx context.Context, organizationID, name, document string) (*models.Client, error) {
	ctx = ensureContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}
	if _, err := s.GetByID(ctx, organizationID); err != nil {
		return nil, err
	}

	client := &models.Client{
		OrganizationID: strings.TrimSpace(organizationID),
		Name:           name,
		Document:       strings.TrimSpace(document),
	}
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, fmt.Errorf("organization service: create client: %w", err)
	}
	return client, nil
}
