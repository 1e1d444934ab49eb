package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deskward/deskward/internal/handlers/testutil"
)

func TestAuthHandler_LoginAndMe(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateOrganization("org-1")
	agent := env.CreateUser("org-1", "agent", "Password123!")

	login := env.Login(agent.Email, "Password123!")
	require.Equal(t, "org-1", login.User.OrganizationID)
	require.Equal(t, "agent", login.User.Role)
	require.Contains(t, login.Permissions, "ticket.view")
	require.NotContains(t, login.Permissions, "ticket.delete")

	me := env.Request(http.MethodGet, "/api/auth/me", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())

	var principal map[string]any
	testutil.DecodeInto(t, testutil.DecodeResponse(t, me).Data, &principal)
	require.Equal(t, agent.ID, principal["userId"])
	require.Equal(t, "org-1", principal["organizationId"])
	require.Equal(t, "agent", principal["role"])
}

func TestAuthHandler_LoginRejectsBadCredentials(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateOrganization("org-1")
	agent := env.CreateUser("org-1", "agent", "Password123!")

	w := env.Request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    agent.Email,
		"password": "wrong-password",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	resp := testutil.DecodeResponse(t, w)
	require.False(t, resp.Success)
	require.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)

	w = env.Request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "Password123!",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_LoginValidatesPayload(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/api/auth/login", map[string]string{"password": "x"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := testutil.DecodeResponse(t, w)
	require.Contains(t, resp.Error.Message, "email is required")
}

func TestAuthHandler_MeRequiresToken(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/api/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.Request(http.MethodGet, "/api/auth/me", nil, "not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
}
