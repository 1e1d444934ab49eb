package permissions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/models"
)

// Set is an effective permission set keyed by "resource.action".
type Set map[string]struct{}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the set members in lexical order.
func (s Set) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolver computes effective permissions from roles and per-user overrides.
// Each call reads the store; nothing is cached between decisions.
type Resolver struct {
	db  *gorm.DB
	now func() time.Time
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithClock overrides the instant used for override expiry checks.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver constructs a resolver backed by the provided database.
func NewResolver(db *gorm.DB, opts ...ResolverOption) (*Resolver, error) {
	if db == nil {
		return nil, errors.New("permission resolver: db is required")
	}
	r := &Resolver{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// EffectivePermissions resolves the role's permissions for the organization, expands implied
// permissions and then applies the user's unexpired overrides. A role that cannot be resolved
// yields an empty set.
func (r *Resolver) EffectivePermissions(ctx context.Context, userID, roleName, organizationID string) (Set, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("permission resolver: user id is required")
	}

	role, err := r.resolveRole(ctx, strings.TrimSpace(roleName), strings.TrimSpace(organizationID))
	if err != nil {
		return nil, err
	}
	if role == nil {
		return Set{}, nil
	}

	granted := make([]string, 0, len(role.Permissions))
	for _, perm := range role.Permissions {
		granted = append(granted, perm.ID)
	}
	effective, err := expandImplied(granted)
	if err != nil {
		return nil, err
	}

	var overrides []models.UserPermissionOverride
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&overrides).Error; err != nil {
		return nil, fmt.Errorf("permission resolver: load overrides: %w", err)
	}

	now := r.now()
	var grants []string
	revoked := make(map[string]struct{})
	for _, o := range overrides {
		if !o.Active(now) {
			continue
		}
		if o.Granted {
			grants = append(grants, o.PermissionID)
		} else {
			revoked[o.PermissionID] = struct{}{}
		}
	}

	extra, err := expandImplied(grants)
	if err != nil {
		return nil, err
	}
	for id := range extra {
		effective[id] = struct{}{}
	}
	// revocations are applied last so they beat both the role and any grant. A revoke removes
	// only the named permission; the permissions it implies stay in the set.
	for id := range revoked {
		delete(effective, id)
	}

	return effective, nil
}

// Check reports whether the user holds permissionID and every permission it depends on.
func (r *Resolver) Check(ctx context.Context, userID, roleName, organizationID, permissionID string) (bool, error) {
	permissionID = strings.TrimSpace(permissionID)
	if _, ok := Get(permissionID); !ok {
		return false, fmt.Errorf("%w %q", ErrUnknownPermission, permissionID)
	}

	effective, err := r.EffectivePermissions(ctx, userID, roleName, organizationID)
	if err != nil {
		return false, err
	}
	if !effective.Has(permissionID) {
		return false, nil
	}

	deps, err := ResolveDependencies(permissionID)
	if err != nil {
		return false, err
	}
	for _, dep := range deps {
		if !effective.Has(dep) {
			return false, nil
		}
	}
	return true, nil
}

// resolveRole prefers a role owned by the organization over a system role of the same name;
// ties are broken by priority.
func (r *Resolver) resolveRole(ctx context.Context, roleName, organizationID string) (*models.Role, error) {
	if roleName == "" {
		return nil, nil
	}

	query := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("name = ?", roleName)
	if organizationID != "" {
		query = query.Where("organization_id = ? OR (is_system = ? AND organization_id IS NULL)", organizationID, true)
	} else {
		query = query.Where("is_system = ? AND organization_id IS NULL", true)
	}

	var candidates []models.Role
	if err := query.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("permission resolver: load role: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ownedI := candidates[i].OrganizationID != nil
		ownedJ := candidates[j].OrganizationID != nil
		if ownedI != ownedJ {
			return ownedI
		}
		return candidates[i].Priority > candidates[j].Priority
	})
	return &candidates[0], nil
}
