package api

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/handlers"
)

func registerAuditRoutes(api *gin.RouterGroup, handler *handlers.AuditHandler, deps routeDeps) {
	g := deps.guard
	api.GET("/audit", g.RequirePermission(deps.resolver, "audit.view"), g.TenantQuery(), handler.List)
}
