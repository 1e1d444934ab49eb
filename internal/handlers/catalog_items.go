package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/services"
	"github.com/deskward/deskward/pkg/response"
)

type CatalogItemHandler struct {
	svc *services.CatalogItemService
}

func NewCatalogItemHandler(svc *services.CatalogItemService) *CatalogItemHandler {
	return &CatalogItemHandler{svc: svc}
}

type createCatalogItemRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category" validate:"max=64"`
	SLAHours int    `json:"slaHours" validate:"gte=0,lte=8760"`
}

// GET /api/catalog-items
func (h *CatalogItemHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)

	items, total, err := h.svc.List(requestContext(c), middleware.TenantFrom(c), c.Query("category"), page, perPage)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paginated(c, items, page, perPage, total)
}

// GET /api/catalog-items/:id
func (h *CatalogItemHandler) Get(c *gin.Context) {
	item, ok := scoped[*models.CatalogItem](c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, item)
}

// POST /api/catalog-items
func (h *CatalogItemHandler) Create(c *gin.Context) {
	var body createCatalogItemRequest
	if !bindAndValidate(c, &body) {
		return
	}

	item, err := h.svc.Create(requestContext(c), services.CreateCatalogItemInput{
		OrganizationID: middleware.TenantFrom(c),
		Name:           body.Name,
		Category:       body.Category,
		SLAHours:       body.SLAHours,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}
