package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/tenancy"
)

// RequireRole admits principals whose role is in roles. With no roles any authenticated
// principal passes.
func (g *Guard) RequireRole(roles ...string) gin.HandlerFunc {
	allowList := append([]string(nil), roles...)

	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		decision := tenancy.Gate(tenancy.GateInput{
			Principal:    principal,
			AllowedRoles: allowList,
			Path:         c.Request.URL.Path,
		})

		if !decision.Allowed() {
			if decision.Outcome == tenancy.Forbidden {
				event := tenancy.NewEvent(tenancy.ActionRoleDenied, tenancy.ResultDenied, principal, c.Request.URL.Path)
				event.RequiredRoles = decision.RequiredRoles
				g.record(event)
			}
			g.abort(c, "role", decision)
			return
		}

		allowed("role")
		c.Next()
	}
}
