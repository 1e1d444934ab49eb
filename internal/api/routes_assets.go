package api

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/handlers"
	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/permissions"
	"github.com/deskward/deskward/internal/services"
)

func registerAssetRoutes(api *gin.RouterGroup, handler *handlers.AssetHandler, svc *services.AssetService, deps routeDeps) {
	g := deps.guard

	assets := api.Group("/assets")
	{
		assets.GET("", g.RequirePermission(deps.resolver, permissions.AssetView), g.TenantQuery(), handler.List)
		assets.GET("/:id",
			g.RequirePermission(deps.resolver, permissions.AssetView),
			middleware.TenantScope[*models.Asset](g, "asset", "id", svc),
			handler.Get,
		)
		assets.POST("",
			g.RequirePermission(deps.resolver, permissions.AssetCreate),
			g.TenantBody(),
			g.ValidateRelatedUsers(deps.users),
			handler.Create,
		)
	}
}
