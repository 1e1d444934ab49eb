package api

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/handlers"
	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/permissions"
	"github.com/deskward/deskward/internal/services"
)

func registerTicketRoutes(api *gin.RouterGroup, handler *handlers.TicketHandler, svc *services.TicketService, deps routeDeps) {
	g := deps.guard
	scope := middleware.TenantScope[*models.Ticket](g, "ticket", "id", svc)

	tickets := api.Group("/tickets")
	{
		tickets.GET("", g.RequirePermission(deps.resolver, permissions.TicketView), g.TenantQuery(), handler.List)
		tickets.GET("/:id", g.RequirePermission(deps.resolver, permissions.TicketView), scope, handler.Get)
		tickets.POST("",
			g.RequirePermission(deps.resolver, permissions.TicketCreate),
			g.TenantBody(),
			g.ValidateRelatedUsers(deps.users),
			handler.Create,
		)
		tickets.PATCH("/:id",
			g.RequirePermission(deps.resolver, permissions.TicketEdit),
			scope,
			g.TenantBody(),
			g.ValidateRelatedUsers(deps.users),
			handler.Update,
		)
		tickets.DELETE("/:id", g.RequirePermission(deps.resolver, permissions.TicketDelete), scope, handler.Delete)
	}
}
