package api

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/handlers"
	"github.com/deskward/deskward/internal/monitoring"
)

func registerHealthRoutes(r *gin.Engine, manager *monitoring.HealthManager) {
	h := handlers.NewHealthHandler(manager)

	r.GET("/health", h.Health)
	r.GET("/health/live", h.Liveness)
	r.GET("/health/ready", h.Readiness)
}
