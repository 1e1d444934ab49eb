package tenancy

import (
	"context"
	"strings"
)

// Principal is the authenticated actor attached to a request. It is built from verified
// credentials and never mutated after the authentication step.
type Principal struct {
	UserID         string   `json:"userId"`
	OrganizationID string   `json:"organizationId"`
	ClientID       string   `json:"clientId,omitempty"`
	Role           string   `json:"role"`
	Email          string   `json:"email,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
}

// Valid reports whether the principal carries the identity every guard relies on.
func (p *Principal) Valid() bool {
	return p != nil && strings.TrimSpace(p.UserID) != "" && strings.TrimSpace(p.OrganizationID) != ""
}

// HasRole reports whether the principal's role appears in roles.
func (p *Principal) HasRole(roles ...string) bool {
	if p == nil {
		return false
	}
	for _, role := range roles {
		if role == p.Role {
			return true
		}
	}
	return false
}

type principalContextKey struct{}

// WithPrincipal returns a derived context carrying the principal so service layers can
// attribute reads and writes without depending on the HTTP framework.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext extracts a principal previously stored with WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	principal, ok := ctx.Value(principalContextKey{}).(Principal)
	return principal, ok
}
