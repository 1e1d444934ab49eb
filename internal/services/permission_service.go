package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/permissions"
	apperrors "github.com/deskward/deskward/pkg/errors"
)

// ErrOverrideNotFound indicates the override does not exist for the user.
var ErrOverrideNotFound = apperrors.New("OVERRIDE_NOT_FOUND", "Permission override not found", http.StatusNotFound)

// CreateOverrideInput describes a per-user grant or revocation.
type CreateOverrideInput struct {
	OrganizationID string
	UserID         string
	PermissionID   string
	Granted        bool
	ExpiresAt      *time.Time
	Reason         string
	GrantedByID    string
}

// PermissionService manages per-user permission overrides.
type PermissionService struct {
	db    *gorm.DB
	audit *AuditService
	now   func() time.Time
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(db *gorm.DB, audit *AuditService) (*PermissionService, error) {
	if db == nil {
		return nil, errors.New("permission service: db is required")
	}
	return &PermissionService{db: db, audit: audit, now: time.Now}, nil
}

// ListOverrides returns every override of a user, newest first.
func (s *PermissionService) ListOverrides(ctx context.Context, userID string) ([]models.UserPermissionOverride, error) {
	ctx = ensureContext(ctx)

	var overrides []models.UserPermissionOverride
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("created_at DESC").
		Find(&overrides).Error; err != nil {
		return nil, fmt.Errorf("permission service: list overrides: %w", err)
	}
	return overrides, nil
}

// CreateOverride stores a grant or revocation. The permission must be in the catalog and an
// expiry, when given, must lie in the future.
func (s *PermissionService) CreateOverride(ctx context.Context, input CreateOverrideInput) (*models.UserPermissionOverride, error) {
	ctx = ensureContext(ctx)

	userID := strings.TrimSpace(input.UserID)
	permissionID := strings.TrimSpace(input.PermissionID)
	if userID == "" {
		return nil, apperrors.NewBadRequest("userId is required")
	}
	if _, ok := permissions.Get(permissionID); !ok {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("unknown permission %q", permissionID))
	}
	if input.ExpiresAt != nil && !input.ExpiresAt.After(s.now()) {
		return nil, apperrors.NewBadRequest("expiresAt must be in the future")
	}

	override := &models.UserPermissionOverride{
		UserID:       userID,
		PermissionID: permissionID,
		Granted:      input.Granted,
		ExpiresAt:    input.ExpiresAt,
		Reason:       strings.TrimSpace(input.Reason),
		GrantedByID:  optionalString(&input.GrantedByID),
	}
	if err := s.db.WithContext(ctx).Create(override).Error; err != nil {
		return nil, fmt.Errorf("permission service: create override: %w", err)
	}

	result := "revoked"
	if override.Granted {
		result = "granted"
	}
	recordAudit(s.audit, ctx, AuditEntry{
		UserID:         override.GrantedByID,
		OrganizationID: input.OrganizationID,
		Action:         "permission.override",
		Resource:       "user",
		ResourceID:     userID,
		Result:         "success",
		Metadata:       map[string]any{"permission": permissionID, "change": result},
	})
	return override, nil
}

// DeleteOverride removes one override of the user.
func (s *PermissionService) DeleteOverride(ctx context.Context, userID, overrideID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", strings.TrimSpace(overrideID), strings.TrimSpace(userID)).
		Delete(&models.UserPermissionOverride{})
	if result.Error != nil {
		return fmt.Errorf("permission service: delete override: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

// PurgeExpired deletes overrides whose expiry lies before now.
func (s *PermissionService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&models.UserPermissionOverride{})
	if result.Error != nil {
		return 0, fmt.Errorf("permission service: purge expired overrides: %w", result.Error)
	}
	return result.RowsAffected, nil
}
