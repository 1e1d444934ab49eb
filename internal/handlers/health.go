package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/monitoring"
	"github.com/deskward/deskward/pkg/response"
)

// HealthHandler exposes liveness and readiness reports.
type HealthHandler struct {
	manager *monitoring.HealthManager
}

func NewHealthHandler(manager *monitoring.HealthManager) *HealthHandler {
	if manager == nil {
		manager = monitoring.NewHealthManager()
	}
	return &HealthHandler{manager: manager}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	report := h.manager.EvaluateReadiness(requestContext(c))
	status := "ok"
	code := http.StatusOK
	if report.Status != monitoring.StatusUp {
		status = string(report.Status)
	}
	if report.Status == monitoring.StatusDown {
		code = http.StatusServiceUnavailable
	}
	response.Success(c, code, gin.H{"status": status, "checked_at": time.Now().UTC()})
}

// GET /health/live
func (h *HealthHandler) Liveness(c *gin.Context) {
	h.writeReport(c, h.manager.EvaluateLiveness(requestContext(c)))
}

// GET /health/ready
func (h *HealthHandler) Readiness(c *gin.Context) {
	h.writeReport(c, h.manager.EvaluateReadiness(requestContext(c)))
}

func (h *HealthHandler) writeReport(c *gin.Context, report monitoring.HealthReport) {
	code := http.StatusOK
	if report.Status == monitoring.StatusDown {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}
