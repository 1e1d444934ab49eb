package api

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/handlers"
	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/permissions"
)

func registerPermissionRoutes(api *gin.RouterGroup, handler *handlers.PermissionHandler, deps routeDeps) {
	g := deps.guard

	api.GET("/permissions/catalog", handler.Catalog)
	api.GET("/me/permissions", handler.MyPermissions)

	// Overrides are managed by organization administrators for users of their own tenant.
	overrides := api.Group("/users/:id/permission-overrides")
	overrides.Use(
		g.RequireRole(permissions.RoleOrgAdmin),
		middleware.TenantScope[*models.User](g, "user", "id", deps.users),
	)
	{
		overrides.GET("", g.RequirePermission(deps.resolver, permissions.PermissionView), handler.ListOverrides)
		overrides.POST("", g.RequirePermission(deps.resolver, permissions.PermissionManage), handler.CreateOverride)
		overrides.DELETE("/:overrideId", g.RequirePermission(deps.resolver, permissions.PermissionManage), handler.DeleteOverride)
	}
}
