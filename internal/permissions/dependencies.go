package permissions

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPermission indicates a permission lookup failed because it is not in the catalog.
	ErrUnknownPermission = errors.New("permission: unknown permission")
	// ErrCircularDependency signals that a dependency graph contains a cycle.
	ErrCircularDependency = errors.New("permission: circular dependency detected")
)

// ResolveDependencies returns the full dependency chain for the specified permission.
func ResolveDependencies(permissionID string) ([]string, error) {
	perms := GetAll()

	root, ok := perms[permissionID]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPermission, permissionID)
	}

	visited := make(map[string]bool, len(perms))
	onStack := make(map[string]bool, len(perms))
	var resolved []string

	var walk func(string) error
	walk = func(current string) error {
		perm, ok := perms[current]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownPermission, current)
		}
		if onStack[current] {
			return fmt.Errorf("%w at %s", ErrCircularDependency, current)
		}
		if visited[current] {
			return nil
		}

		onStack[current] = true
		for _, dep := range perm.DependsOn {
			if err := walk(dep); err != nil {
				return err
			}
		}
		onStack[current] = false
		visited[current] = true

		if current != permissionID {
			resolved = append(resolved, current)
		}
		return nil
	}

	onStack[permissionID] = true
	for _, dep := range root.DependsOn {
		if err := walk(dep); err != nil {
			return nil, err
		}
	}

	return resolved, nil
}

// expandImplied returns ids plus everything they imply, transitively.
func expandImplied(ids []string) (Set, error) {
	perms := make(Set, len(ids))

	var visit func(string) error
	visit = func(id string) error {
		if _, exists := perms[id]; exists {
			return nil
		}
		def, ok := Get(id)
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownPermission, id)
		}
		perms[id] = struct{}{}
		for _, implied := range def.Implies {
			if err := visit(implied); err != nil {
				return err
			}
		}
		return nil
	}

	for _, id := range ids {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return perms, nil
}
