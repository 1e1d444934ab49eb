package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/services"
	"github.com/deskward/deskward/pkg/response"
)

type AssetHandler struct {
	svc *services.AssetService
}

func NewAssetHandler(svc *services.AssetService) *AssetHandler {
	return &AssetHandler{svc: svc}
}

type createAssetRequest struct {
	Name         string         `json:"name" validate:"required,max=200"`
	Tag          string         `json:"tag" validate:"max=64"`
	Kind         string         `json:"kind" validate:"max=32"`
	ClientID     *string        `json:"clientId"`
	AssignedToID *string        `json:"assignedToId"`
	Specs        map[string]any `json:"specs"`
}

// GET /api/assets
func (h *AssetHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)

	assets, total, err := h.svc.List(requestContext(c), middleware.TenantFrom(c), c.Query("clientId"), page, perPage)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paginated(c, assets, page, perPage, total)
}

// GET /api/assets/:id
func (h *AssetHandler) Get(c *gin.Context) {
	asset, ok := scoped[*models.Asset](c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, asset)
}

// POST /api/assets
func (h *AssetHandler) Create(c *gin.Context) {
	var body createAssetRequest
	if !bindAndValidate(c, &body) {
		return
	}

	asset, err := h.svc.Create(requestContext(c), services.CreateAssetInput{
		OrganizationID: middleware.TenantFrom(c),
		ClientID:       body.ClientID,
		Name:           body.Name,
		Tag:            body.Tag,
		Kind:           body.Kind,
		AssignedToID:   body.AssignedToID,
		Specs:          body.Specs,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, asset)
}
