package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/permissions"
	"github.com/deskward/deskward/internal/tenancy"
	"github.com/deskward/deskward/pkg/errors"
	"github.com/deskward/deskward/pkg/metrics"
	"github.com/deskward/deskward/pkg/response"
)

// RequirePermission checks that the principal's effective permission set contains
// permissionID and everything it depends on.
func (g *Guard) RequirePermission(resolver *permissions.Resolver, permissionID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		if principal == nil {
			g.abort(c, "permission", tenancy.Decision{Outcome: tenancy.Unauthenticated})
			return
		}

		ok, err := resolver.Check(c.Request.Context(), principal.UserID, principal.Role, principal.OrganizationID, permissionID)
		if err != nil {
			metrics.PermissionChecks.WithLabelValues(permissionID, "error").Inc()
			response.Error(c, errors.ErrInternalServer.WithInternal(err))
			c.Abort()
			return
		}
		if !ok {
			metrics.PermissionChecks.WithLabelValues(permissionID, "denied").Inc()
			event := tenancy.NewEvent(tenancy.ActionPermissionDenied, tenancy.ResultDenied, principal, c.Request.URL.Path)
			event.Permission = permissionID
			g.record(event)
			g.abort(c, "permission", tenancy.Decision{Outcome: tenancy.Forbidden, UserRole: principal.Role})
			return
		}

		metrics.PermissionChecks.WithLabelValues(permissionID, "allowed").Inc()
		c.Next()
	}
}
