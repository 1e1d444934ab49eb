package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/pkg/crypto"
	apperrors "github.com/deskward/deskward/pkg/errors"
)

// ErrUserInactive indicates the account exists but has been disabled.
var ErrUserInactive = apperrors.New("USER_INACTIVE", "User account is disabled", http.StatusUnauthorized)

// CreateUserInput describes the fields accepted when creating a user.
type CreateUserInput struct {
	OrganizationID string
	ClientID       *string
	Email          string
	Name           string
	Password       string
	Role           string
}

// UserService manages users of an organization.
type UserService struct {
	db    *gorm.DB
	store scopedStore[models.User]
	audit *AuditService
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB, audit *AuditService) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db, store: newScopedStore[models.User](db, "user"), audit: audit}, nil
}

// FindScoped loads a user inside an organization.
func (s *UserService) FindScoped(ctx context.Context, id, organizationID string) (*models.User, error) {
	return s.store.FindScoped(ctx, id, organizationID)
}

// UserInOrganization reports whether userID names a user of organizationID.
func (s *UserService) UserInOrganization(ctx context.Context, userID, organizationID string) (bool, error) {
	ok, err := belongs(ctx, s.db, &models.User{}, strings.TrimSpace(userID), strings.TrimSpace(organizationID))
	if err != nil {
		return false, fmt.Errorf("user service: lookup %s: %w", userID, err)
	}
	return ok, nil
}

// List returns a page of users of one organization.
func (s *UserService) List(ctx context.Context, organizationID, query string, page, perPage int) ([]models.User, int64, error) {
	return s.store.list(ctx, organizationID, page, perPage, func(q *gorm.DB) *gorm.DB {
		if query = strings.ToLower(strings.TrimSpace(query)); query != "" {
			like := "%" + query + "%"
			q = q.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
		}
		return q
	})
}

// Create provisions a user with a hashed password.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	orgID := strings.TrimSpace(input.OrganizationID)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	role := strings.TrimSpace(input.Role)
	switch {
	case orgID == "":
		return nil, apperrors.NewBadRequest("organizationId is required")
	case email == "":
		return nil, apperrors.NewBadRequest("email is required")
	case role == "":
		return nil, apperrors.NewBadRequest("role is required")
	}

	clientID := optionalString(input.ClientID)
	if clientID != nil {
		ok, err := belongs(ctx, s.db, &models.Client{}, *clientID, orgID)
		if err != nil {
			return nil, fmt.Errorf("user service: check client: %w", err)
		}
		if !ok {
			return nil, ErrForeignReference.WithMessage("clientId does not belong to this organization")
		}
	}

	if err := s.ensureRole(ctx, orgID, role); err != nil {
		return nil, err
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, crypto.ErrEmptyPassword) {
			return nil, apperrors.NewBadRequest("password is required")
		}
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := &models.User{
		OrganizationID: orgID,
		ClientID:       clientID,
		Email:          email,
		Name:           strings.TrimSpace(input.Name),
		Password:       hashed,
		Role:           role,
		IsActive:       true,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, createError("user service: create", err, ErrEmailTaken)
	}

	recordAudit(s.audit, ctx, AuditEntry{
		UserID:         &user.ID,
		Email:          user.Email,
		OrganizationID: user.OrganizationID,
		Action:         "user.create",
		Resource:       "user",
		ResourceID:     user.ID,
		Result:         "success",
		Metadata:       map[string]any{"role": user.Role},
	})
	return user, nil
}

// ensureRole accepts system roles and roles owned by organizationID.
func (s *UserService) ensureRole(ctx context.Context, organizationID, name string) error {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Role{}).
		Where("name = ? AND (organization_id = ? OR (organization_id IS NULL AND is_system = ?))", name, organizationID, true).
		Count(&count).Error; err != nil {
		return fmt.Errorf("user service: check role: %w", err)
	}
	if count == 0 {
		return apperrors.NewBadRequest(fmt.Sprintf("role %q is not defined for this organization", name))
	}
	return nil
}

// Authenticate verifies an e-mail/password pair and returns the active user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user service: load %s: %w", email, err)
	}

	// unknown e-mails are compared against the dummy hash
	if !crypto.VerifyPassword(user.Password, password) || user.ID == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return &user, nil
}
