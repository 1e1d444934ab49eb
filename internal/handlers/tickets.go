package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/services"
	"github.com/deskward/deskward/pkg/response"
)

// TicketHandler serves the ticket routes. Organization ids come from the tenant filters and
// single tickets from the tenant scope guard, never from raw client input.
type TicketHandler struct {
	svc *services.TicketService
}

func NewTicketHandler(svc *services.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

type createTicketRequest struct {
	Subject       string  `json:"subject" validate:"required,max=200"`
	Description   string  `json:"description" validate:"max=10000"`
	Priority      string  `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	ClientID      *string `json:"clientId"`
	RequesterID   *string `json:"requesterId"`
	AssigneeID    *string `json:"assigneeId"`
	CatalogItemID *string `json:"catalogItemId"`
}

type updateTicketRequest struct {
	Subject       *string `json:"subject" validate:"omitempty,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=10000"`
	Status        *string `json:"status" validate:"omitempty,oneof=open in_progress waiting resolved closed"`
	Priority      *string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	RequesterID   *string `json:"requesterId"`
	AssigneeID    *string `json:"assigneeId"`
	CatalogItemID *string `json:"catalogItemId"`
}

// GET /api/tickets
func (h *TicketHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)

	tickets, total, err := h.svc.List(requestContext(c), middleware.TenantFrom(c), services.TicketListOptions{
		Page:       page,
		PageSize:   perPage,
		Status:     c.Query("status"),
		AssigneeID: c.Query("assigneeId"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paginated(c, tickets, page, perPage, total)
}

// GET /api/tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	ticket, ok := scoped[*models.Ticket](c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, ticket)
}

// POST /api/tickets
func (h *TicketHandler) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var body createTicketRequest
	if !bindAndValidate(c, &body) {
		return
	}

	requester := body.RequesterID
	if requester == nil || strings.TrimSpace(*requester) == "" {
		requester = &principal.UserID
	}

	ticket, err := h.svc.Create(requestContext(c), services.CreateTicketInput{
		OrganizationID: middleware.TenantFrom(c),
		Subject:        body.Subject,
		Description:    body.Description,
		Priority:       body.Priority,
		ClientID:       body.ClientID,
		RequesterID:    requester,
		AssigneeID:     body.AssigneeID,
		CatalogItemID:  body.CatalogItemID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ticket)
}

// PATCH /api/tickets/:id
func (h *TicketHandler) Update(c *gin.Context) {
	ticket, ok := scoped[*models.Ticket](c)
	if !ok {
		return
	}

	var body updateTicketRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.UpdateTicketInput{
		Subject:       body.Subject,
		Description:   body.Description,
		Priority:      body.Priority,
		RequesterID:   body.RequesterID,
		AssigneeID:    body.AssigneeID,
		CatalogItemID: body.CatalogItemID,
	}
	if body.Status != nil {
		status := models.TicketStatus(*body.Status)
		input.Status = &status
	}

	updated, err := h.svc.Update(requestContext(c), ticket, input)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// DELETE /api/tickets/:id
func (h *TicketHandler) Delete(c *gin.Context) {
	ticket, ok := scoped[*models.Ticket](c)
	if !ok {
		return
	}
	if err := h.svc.Delete(requestContext(c), ticket); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
