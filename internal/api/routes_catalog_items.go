package api

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/handlers"
	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/permissions"
	"github.com/deskward/deskward/internal/services"
)

func registerCatalogItemRoutes(api *gin.RouterGroup, handler *handlers.CatalogItemHandler, svc *services.CatalogItemService, deps routeDeps) {
	g := deps.guard

	items := api.Group("/catalog-items")
	{
		items.GET("", g.RequirePermission(deps.resolver, permissions.CatalogItemView), g.TenantQuery(), handler.List)
		items.GET("/:id",
			g.RequirePermission(deps.resolver, permissions.CatalogItemView),
			middleware.TenantScope[*models.CatalogItem](g, "catalog_item", "id", svc),
			handler.Get,
		)
		items.POST("", g.RequirePermission(deps.resolver, permissions.CatalogItemCreate), g.TenantBody(), handler.Create)
	}
}
