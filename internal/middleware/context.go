package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/tenancy"
)

const (
	CtxClaimsKey    = "authClaims"
	CtxUserIDKey    = "userID"
	CtxPrincipalKey = "principal"
	// CtxResourceKey holds the row loaded by TenantScope.
	CtxResourceKey = "scopedResource"
	// CtxBodyKey holds the decoded JSON body after the tenant write filter ran.
	CtxBodyKey = "tenantBody"
	// CtxTenantKey holds the organization id produced by the tenant filters.
	CtxTenantKey = "tenantOrganization"
)

// SetPrincipal attaches the principal to the gin context and to the request context.
func SetPrincipal(c *gin.Context, principal tenancy.Principal) {
	c.Set(CtxPrincipalKey, principal)
	c.Set(CtxUserIDKey, principal.UserID)
	c.Request = c.Request.WithContext(tenancy.WithPrincipal(c.Request.Context(), principal))
}

// PrincipalFrom returns the principal attached by Auth, or nil.
func PrincipalFrom(c *gin.Context) *tenancy.Principal {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return nil
	}
	principal, ok := v.(tenancy.Principal)
	if !ok {
		return nil
	}
	return &principal
}

// ScopedResource returns the resource cached by TenantScope for the current request.
func ScopedResource[T any](c *gin.Context) (T, bool) {
	var zero T
	v, ok := c.Get(CtxResourceKey)
	if !ok {
		return zero, false
	}
	resource, ok := v.(T)
	return resource, ok
}

// TenantFrom returns the organization id the tenant filters settled on, falling back to the
// principal's organization on routes without a filter.
func TenantFrom(c *gin.Context) string {
	if org := c.GetString(CtxTenantKey); org != "" {
		return org
	}
	if principal := PrincipalFrom(c); principal != nil {
		return principal.OrganizationID
	}
	return ""
}
