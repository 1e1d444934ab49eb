package api

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/handlers"
	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/models"
)

func registerUserRoutes(api *gin.RouterGroup, handler *handlers.UserHandler, deps routeDeps) {
	g := deps.guard

	users := api.Group("/users")
	{
		users.GET("", g.RequirePermission(deps.resolver, "user.view"), g.TenantQuery(), handler.List)
		users.GET("/:id",
			g.RequirePermission(deps.resolver, "user.view"),
			middleware.TenantScope[*models.User](g, "user", "id", deps.users),
			handler.Get,
		)
		users.POST("", g.RequirePermission(deps.resolver, "user.create"), g.TenantBody(), handler.Create)
	}
}
