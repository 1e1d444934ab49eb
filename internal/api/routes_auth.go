package api

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/app"
	"github.com/deskward/deskward/internal/handlers"
	"github.com/deskward/deskward/internal/middleware"
)

func registerPublicAuthRoutes(r *gin.Engine, handler *handlers.AuthHandler, login app.LoginSettings) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.RateLimit(login.RateLimit, login.RateWindow), handler.Login)
	}
}

func registerAuthRoutes(api *gin.RouterGroup, handler *handlers.AuthHandler) {
	api.GET("/auth/me", handler.Me)
}
