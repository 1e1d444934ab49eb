package permissions

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"
)

// Permission describes a catalog entry. ID is derived from Resource and Action on registration.
type Permission struct {
	ID          string
	Resource    Resource
	Action      Action
	Scope       Scope
	DependsOn   []string
	Implies     []string
	Description string
}

type permissionRegistry struct {
	mu          sync.RWMutex
	permissions map[string]*Permission
}

var globalRegistry = &permissionRegistry{
	permissions: make(map[string]*Permission),
}

var (
	errNilPermission   = errors.New("permission: nil definition")
	errDuplicateID     = errors.New("permission: already registered")
	errInvalidScope    = errors.New("permission: invalid scope")
	errSelfDependency  = errors.New("permission: cannot depend on itself")
	errSelfImplication = errors.New("permission: cannot imply itself")
)

// Register adds a permission definition to the global registry.
func Register(perm *Permission) error {
	if perm == nil {
		return errNilPermission
	}
	if !perm.Resource.Valid() {
		return fmt.Errorf("%w: resource %q", ErrUnknownPermission, perm.Resource)
	}
	if !perm.Action.Valid() {
		return fmt.Errorf("%w: action %q", ErrUnknownPermission, perm.Action)
	}

	def := clonePermission(perm)
	def.ID = Key(def.Resource, def.Action)
	if def.Scope == "" {
		def.Scope = ScopeOrganization
	}
	if !def.Scope.Valid() {
		return fmt.Errorf("%w: %s has scope %q", errInvalidScope, def.ID, def.Scope)
	}

	depends, err := normaliseIDs(def.DependsOn, def.ID, errSelfDependency)
	if err != nil {
		return err
	}
	implies, err := normaliseIDs(def.Implies, def.ID, errSelfImplication)
	if err != nil {
		return err
	}
	def.DependsOn = depends
	def.Implies = implies

	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	if _, exists := globalRegistry.permissions[def.ID]; exists {
		return fmt.Errorf("%w: %s", errDuplicateID, def.ID)
	}

	globalRegistry.permissions[def.ID] = def
	return nil
}

// Get returns a copy of the permission definition when registered.
func Get(id string) (*Permission, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	perm, ok := globalRegistry.permissions[strings.TrimSpace(id)]
	if !ok {
		return nil, false
	}
	return clonePermission(perm), true
}

// GetAll returns a copy of all registered permissions keyed by ID.
func GetAll() map[string]*Permission {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	out := make(map[string]*Permission, len(globalRegistry.permissions))
	for id, perm := range globalRegistry.permissions {
		out[id] = clonePermission(perm)
	}
	return out
}

// GroupByResource returns the catalog grouped by resource, each group sorted by ID.
func GroupByResource() map[Resource][]*Permission {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	groups := make(map[Resource][]*Permission)
	for _, perm := range globalRegistry.permissions {
		groups[perm.Resource] = append(groups[perm.Resource], clonePermission(perm))
	}
	for _, perms := range groups {
		sort.Slice(perms, func(i, j int) bool { return perms[i].ID < perms[j].ID })
	}
	return groups
}

// ValidateDependencies checks the whole catalog and reports every dangling DependsOn or
// Implies reference and every dependency cycle, ordered by permission id.
func ValidateDependencies() error {
	catalog := GetAll()
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs error
	for _, id := range ids {
		perm := catalog[id]
		for _, dep := range perm.DependsOn {
			if _, ok := catalog[dep]; !ok {
				errs = multierr.Append(errs, fmt.Errorf("permission: %s depends on unknown permission %s", id, dep))
			}
		}
		for _, implied := range perm.Implies {
			if _, ok := catalog[implied]; !ok {
				errs = multierr.Append(errs, fmt.Errorf("permission: %s implies unknown permission %s", id, implied))
			}
		}
		if _, err := ResolveDependencies(id); errors.Is(err, ErrCircularDependency) {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func clonePermission(perm *Permission) *Permission {
	if perm == nil {
		return nil
	}

	clone := *perm
	clone.DependsOn = slices.Clone(perm.DependsOn)
	clone.Implies = slices.Clone(perm.Implies)
	return &clone
}

func normaliseIDs(values []string, self string, selfErr error) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(values))
	var result []string

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if value == self {
			return nil, selfErr
		}
		if _, exists := seen[value]; exists {
			continue
		}

		seen[value] = struct{}{}
		result = append(result, value)
	}

	return result, nil
}
