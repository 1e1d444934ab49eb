package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by finders when no row matches the id within the organization.
var ErrNotFound = errors.New("tenancy: resource not found")

// ScopeFinder loads one resource by id restricted to an organization. Implementations return
// ErrNotFound (possibly wrapped) when nothing matches.
type ScopeFinder[T any] interface {
	FindScoped(ctx context.Context, id, organizationID string) (T, error)
}

// ScopeFinderFunc adapts a function to ScopeFinder.
type ScopeFinderFunc[T any] func(ctx context.Context, id, organizationID string) (T, error)

func (f ScopeFinderFunc[T]) FindScoped(ctx context.Context, id, organizationID string) (T, error) {
	return f(ctx, id, organizationID)
}

// ScopeInput identifies the resource a single-resource route addresses.
type ScopeInput struct {
	Principal  *Principal
	ResourceID string
}

// Scope confirms that the addressed resource exists inside the principal's organization.
// A request without an identifier passes through with the zero value. A resource owned by
// another organization yields NotFound, exactly like one that never existed. Store failures
// are returned as errors.
func Scope[T any](ctx context.Context, in ScopeInput, finder ScopeFinder[T]) (T, Decision, error) {
	var zero T

	if in.Principal == nil {
		return zero, unauthenticated(), nil
	}

	id := strings.TrimSpace(in.ResourceID)
	if id == "" {
		return zero, allow(), nil
	}
	if !in.Principal.Valid() {
		return zero, Decision{Outcome: NotFound, ResourceID: id}, nil
	}

	resource, err := finder.FindScoped(ctx, id, in.Principal.OrganizationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return zero, Decision{Outcome: NotFound, ResourceID: id}, nil
		}
		return zero, Decision{}, fmt.Errorf("tenancy: scope lookup %s: %w", id, err)
	}
	return resource, allow(), nil
}
