package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/services"
	"github.com/deskward/deskward/pkg/response"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required,max=128"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"required,max=64"`
	ClientID *string `json:"clientId"`
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)

	users, total, err := h.service.List(requestContext(c), middleware.TenantFrom(c), c.Query("q"), page, perPage)
	if err != nil {
		writeError(c, err)
		return
	}

	payload := make([]userPayload, 0, len(users))
	for i := range users {
		payload = append(payload, newUserPayload(&users[i]))
	}
	response.Paginated(c, payload, page, perPage, total)
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, ok := scoped[*models.User](c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, newUserPayload(user))
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var body createUserRequest
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.service.Create(requestContext(c), services.CreateUserInput{
		OrganizationID: middleware.TenantFrom(c),
		ClientID:       body.ClientID,
		Email:          body.Email,
		Name:           body.Name,
		Password:       body.Password,
		Role:           body.Role,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, newUserPayload(user))
}
