package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/deskward/deskward/internal/auth"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/permissions"
	"github.com/deskward/deskward/internal/services"
	"github.com/deskward/deskward/pkg/metrics"
	"github.com/deskward/deskward/pkg/response"
)

// AuthHandler issues principal tokens for local accounts.
type AuthHandler struct {
	users    *services.UserService
	jwt      *iauth.JWTService
	resolver *permissions.Resolver
}

func NewAuthHandler(users *services.UserService, jwt *iauth.JWTService, resolver *permissions.Resolver) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, resolver: resolver}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int         `json:"expires_in"`
	User        userPayload `json:"user"`
	Permissions []string    `json:"permissions"`
}

type userPayload struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organizationId"`
	ClientID       *string `json:"clientId,omitempty"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
}

func newUserPayload(user *models.User) userPayload {
	return userPayload{
		ID:             user.ID,
		OrganizationID: user.OrganizationID,
		ClientID:       user.ClientID,
		Email:          user.Email,
		Name:           user.Name,
		Role:           user.Role,
	}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Authenticate(requestContext(c), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		writeError(c, err)
		return
	}

	input := iauth.AccessTokenInput{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
		Email:          user.Email,
	}
	if user.ClientID != nil {
		input.ClientID = *user.ClientID
	}
	token, err := h.jwt.GenerateAccessToken(input)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		writeError(c, err)
		return
	}

	set, err := h.resolver.EffectivePermissions(requestContext(c), user.ID, user.Role, user.OrganizationID)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		writeError(c, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	response.Success(c, http.StatusOK, loginResponse{
		AccessToken: token,
		ExpiresIn:   int(h.jwt.TTL().Seconds()),
		User:        newUserPayload(user),
		Permissions: set.Sorted(),
	})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, principal)
}
