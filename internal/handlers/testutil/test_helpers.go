package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/api"
	"github.com/deskward/deskward/internal/app"
	iauth "github.com/deskward/deskward/internal/auth"
	sharedtestutil "github.com/deskward/deskward/internal/database/testutil"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/tenancy"
	"github.com/deskward/deskward/pkg/crypto"
	"github.com/deskward/deskward/pkg/response"
)

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Router *gin.Engine
	JWT    *iauth.JWTService
	Config *app.Config

	mu     sync.Mutex
	events []tenancy.Event
}

// EnvOption adjusts the configuration before the router is built.
type EnvOption func(*app.Config)

// WithLocale selects the denial message locale.
func WithLocale(locale string) EnvOption {
	return func(cfg *app.Config) { cfg.Tenancy.Locale = locale }
}

// WithStrictTenantInput rejects client supplied tenant ids that differ from the principal's.
func WithStrictTenantInput() EnvOption {
	return func(cfg *app.Config) { cfg.Tenancy.StrictTenantInput = true }
}

// NewEnv provisions a fresh handler test environment with migrations and seed data applied.
func NewEnv(t *testing.T, opts ...EnvOption) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithSeedData())

	jwtSecret := "test-suite-super-secret-key-32-bytes!!"
	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         jwtSecret,
		Issuer:         "test-suite",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	cfg := &app.Config{
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: jwtSecret,
				Issuer: "test-suite",
				TTL:    time.Hour,
			},
		},
		Tenancy: app.TenancyConfig{
			TenantField:       "organizationId",
			Locale:            "en",
			RelatedUserFields: []string{"assigneeId", "requesterId", "assignedToId"},
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	env := &Env{
		T:      t,
		DB:     db,
		JWT:    jwtSvc,
		Config: cfg,
	}

	router, err := api.NewRouter(db, jwtSvc, cfg, tenancy.AuditSinkFunc(env.record))
	require.NoError(t, err)
	env.Router = router

	return env
}

func (e *Env) record(event tenancy.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

// Events returns the guard audit events recorded so far.
func (e *Env) Events() []tenancy.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]tenancy.Event(nil), e.events...)
}

// CreateOrganization inserts an organization with a fixed id.
func (e *Env) CreateOrganization(id string) *models.Organization {
	e.T.Helper()
	return sharedtestutil.MustCreateOrganization(e.T, e.DB, id)
}

// CreateUser inserts an active user of organizationID with a hashed password and returns it.
func (e *Env) CreateUser(organizationID, role, password string) *models.User {
	e.T.Helper()

	hashed, err := crypto.HashPassword(password)
	require.NoError(e.T, err)

	email := role + "-" + uuid.NewString()[:8] + "@example.com"
	user := &models.User{
		OrganizationID: organizationID,
		Email:          email,
		Name:           role,
		Password:       hashed,
		Role:           role,
		IsActive:       true,
	}
	require.NoError(e.T, e.DB.Create(user).Error)
	return user
}

// TokenFor mints an access token for user without going through the login endpoint.
func (e *Env) TokenFor(user *models.User) string {
	e.T.Helper()

	token, err := e.JWT.GenerateAccessToken(iauth.AccessTokenInput{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
		Email:          user.Email,
	})
	require.NoError(e.T, err)
	return token
}

// UserPayload captures the user fields returned from auth endpoints.
type UserPayload struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
}

// LoginResult bundles the JSON response from POST /api/auth/login.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int         `json:"expires_in"`
	User        UserPayload `json:"user"`
	Permissions []string    `json:"permissions"`
}

// Login authenticates a local account and returns the issued token.
func (e *Env) Login(email, password string) LoginResult {
	e.T.Helper()

	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	w := e.Request(http.MethodPost, "/api/auth/login", payload, "")
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	resp := DecodeResponse(e.T, w)
	require.True(e.T, resp.Success, w.Body.String())

	var result LoginResult
	DecodeInto(e.T, resp.Data, &result)
	require.NotEmpty(e.T, result.AccessToken)
	require.Greater(e.T, result.ExpiresIn, 0)
	require.Equal(e.T, email, result.User.Email)

	return result
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeDenial parses the flat payload written by the authorization guards.
func DecodeDenial(t *testing.T, w *httptest.ResponseRecorder) response.Denial {
	t.Helper()
	var denial response.Denial
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &denial), w.Body.String())
	return denial
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// CreateRole inserts a role owned by organizationID holding permissionIDs.
func (e *Env) CreateRole(name, organizationID string, permissionIDs ...string) *models.Role {
	e.T.Helper()

	role := &models.Role{
		Name:           name,
		OrganizationID: &organizationID,
		Level:          models.RoleLevelOrganization,
		Priority:       10,
	}
	require.NoError(e.T, e.DB.Create(role).Error)

	if len(permissionIDs) > 0 {
		var perms []models.Permission
		require.NoError(e.T, e.DB.Where("id IN ?", permissionIDs).Find(&perms).Error)
		require.Len(e.T, perms, len(permissionIDs))
		require.NoError(e.T, e.DB.Model(role).Association("Permissions").Append(&perms))
	}
	return role
}

// CreateTicket inserts a ticket of organizationID directly through the store.
func (e *Env) CreateTicket(id, organizationID, subject string) *models.Ticket {
	e.T.Helper()

	ticket := &models.Ticket{
		BaseModel:      models.BaseModel{ID: id},
		OrganizationID: organizationID,
		Subject:        subject,
		Status:         models.TicketStatusOpen,
		Priority:       "medium",
	}
	require.NoError(e.T, e.DB.Create(ticket).Error)
	return ticket
}
