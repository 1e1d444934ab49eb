package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/services"
	appErrors "github.com/deskward/deskward/pkg/errors"
	"github.com/deskward/deskward/pkg/response"
)

type AuditHandler struct {
	svc *services.AuditService
}

func NewAuditHandler(svc *services.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

type auditQuery struct {
	UserID   string     `form:"userId"`
	Action   string     `form:"action"`
	Result   string     `form:"result"`
	Resource string     `form:"resource"`
	Since    *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until    *time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
}

// GET /api/audit
func (h *AuditHandler) List(c *gin.Context) {
	var query auditQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.NewBadRequest("since and until must be RFC 3339 timestamps"))
		return
	}
	if query.Since != nil && query.Until != nil && query.Until.Before(*query.Since) {
		response.Error(c, appErrors.NewBadRequest("until must not be before since"))
		return
	}

	page, perPage := pageParams(c)
	logs, total, err := h.svc.List(requestContext(c), middleware.TenantFrom(c), services.AuditListOptions{
		Page:     page,
		PageSize: perPage,
		Filters: services.AuditFilters{
			UserID:   query.UserID,
			Action:   query.Action,
			Result:   query.Result,
			Resource: query.Resource,
			Since:    query.Since,
			Until:    query.Until,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paginated(c, logs, page, perPage, total)
}
