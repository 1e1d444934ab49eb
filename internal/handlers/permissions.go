package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/permissions"
	"github.com/deskward/deskward/internal/services"
	"github.com/deskward/deskward/pkg/response"
)

type PermissionHandler struct {
	svc      *services.PermissionService
	resolver *permissions.Resolver
}

func NewPermissionHandler(svc *services.PermissionService, resolver *permissions.Resolver) *PermissionHandler {
	return &PermissionHandler{svc: svc, resolver: resolver}
}

type permissionPayload struct {
	ID          string   `json:"id"`
	Action      string   `json:"action"`
	Scope       string   `json:"scope"`
	DependsOn   []string `json:"dependsOn,omitempty"`
	Implies     []string `json:"implies,omitempty"`
	Description string   `json:"description,omitempty"`
}

type resourceGroup struct {
	Resource    string              `json:"resource"`
	Permissions []permissionPayload `json:"permissions"`
}

type createOverrideRequest struct {
	PermissionID string     `json:"permissionId" validate:"required,permission_id"`
	Granted      *bool      `json:"granted" validate:"required"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	Reason       string     `json:"reason" validate:"max=500"`
}

// GET /api/permissions/catalog
func (h *PermissionHandler) Catalog(c *gin.Context) {
	groups := permissions.GroupByResource()

	out := make([]resourceGroup, 0, len(groups))
	for resource, perms := range groups {
		group := resourceGroup{Resource: string(resource), Permissions: make([]permissionPayload, 0, len(perms))}
		for _, perm := range perms {
			group.Permissions = append(group.Permissions, permissionPayload{
				ID:          perm.ID,
				Action:      string(perm.Action),
				Scope:       string(perm.Scope),
				DependsOn:   perm.DependsOn,
				Implies:     perm.Implies,
				Description: perm.Description,
			})
		}
		out = append(out, group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Resource < out[j].Resource })

	response.Success(c, http.StatusOK, out)
}

// GET /api/me/permissions
func (h *PermissionHandler) MyPermissions(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	set, err := h.resolver.EffectivePermissions(requestContext(c), principal.UserID, principal.Role, principal.OrganizationID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, set.Sorted())
}

// GET /api/users/:id/permission-overrides
func (h *PermissionHandler) ListOverrides(c *gin.Context) {
	user, ok := scoped[*models.User](c)
	if !ok {
		return
	}

	overrides, err := h.svc.ListOverrides(requestContext(c), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, overrides)
}

// POST /api/users/:id/permission-overrides
func (h *PermissionHandler) CreateOverride(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	user, ok := scoped[*models.User](c)
	if !ok {
		return
	}

	var body createOverrideRequest
	if !bindAndValidate(c, &body) {
		return
	}

	override, err := h.svc.CreateOverride(requestContext(c), services.CreateOverrideInput{
		OrganizationID: middleware.TenantFrom(c),
		UserID:         user.ID,
		PermissionID:   body.PermissionID,
		Granted:        *body.Granted,
		ExpiresAt:      body.ExpiresAt,
		Reason:         body.Reason,
		GrantedByID:    principal.UserID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, override)
}

// DELETE /api/users/:id/permission-overrides/:overrideId
func (h *PermissionHandler) DeleteOverride(c *gin.Context) {
	user, ok := scoped[*models.User](c)
	if !ok {
		return
	}
	if err := h.svc.DeleteOverride(requestContext(c), user.ID, c.Param("overrideId")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
