package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deskward/deskward/internal/handlers/testutil"
	"github.com/deskward/deskward/internal/models"
)

func TestTicketHandler_CreateGetUpdate(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateOrganization("org-1")
	agent := env.CreateUser("org-1", "agent", "Password123!")
	token := env.TokenFor(agent)

	create := env.Request(http.MethodPost, "/api/tickets", map[string]any{
		"subject":  "Printer offline",
		"priority": "high",
	}, token)
	require.Equal(t, http.StatusCreated, create.Code, create.Body.String())

	var ticket models.Ticket
	testutil.DecodeInto(t, testutil.DecodeResponse(t, create).Data, &ticket)
	require.NotEmpty(t, ticket.ID)
	require.Equal(t, "org-1", ticket.OrganizationID)
	require.Equal(t, models.TicketStatusOpen, ticket.Status)
	require.Equal(t, "high", ticket.Priority)
	require.NotNil(t, ticket.RequesterID)
	require.Equal(t, agent.ID, *ticket.RequesterID)

	get := env.Request(http.MethodGet, "/api/tickets/"+ticket.ID, nil, token)
	require.Equal(t, http.StatusOK, get.Code, get.Body.String())

	update := env.Request(http.MethodPatch, "/api/tickets/"+ticket.ID, map[string]any{
		"status":     "in_progress",
		"assigneeId": agent.ID,
	}, token)
	require.Equal(t, http.StatusOK, update.Code, update.Body.String())

	var updated models.Ticket
	testutil.DecodeInto(t, testutil.DecodeResponse(t, update).Data, &updated)
	require.Equal(t, models.TicketStatusInProgress, updated.Status)
	require.NotNil(t, updated.AssigneeID)
	require.Equal(t, agent.ID, *updated.AssigneeID)
}

func TestTicketHandler_CreateValidatesPayload(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateOrganization("org-1")
	token := env.TokenFor(env.CreateUser("org-1", "agent", "Password123!"))

	w := env.Request(http.MethodPost, "/api/tickets", map[string]any{
		"subject":  "Slow VPN",
		"priority": "whenever",
	}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := testutil.DecodeResponse(t, w)
	require.Equal(t, "priority must be one of: low medium high urgent", resp.Error.Message)

	w = env.Request(http.MethodPost, "/api/tickets", map[string]any{"description": "no subject"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, testutil.DecodeResponse(t, w).Error.Message, "subject is required")

	w = env.Request(http.MethodPost, "/api/tickets", map[string]any{"subject": 42}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "subject must be a string", testutil.DecodeResponse(t, w).Error.Message)
}

func TestTicketHandler_ListIsTenantFiltered(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateOrganization("org-1")
	env.CreateOrganization("org-2")
	env.CreateTicket("ticket-1", "org-1", "Mine")
	env.CreateTicket("ticket-2", "org-2", "Theirs")
	token := env.TokenFor(env.CreateUser("org-1", "agent", "Password123!"))

	for _, path := range []string{"/api/tickets", "/api/tickets?organizationId=org-2"} {
		w := env.Request(http.MethodGet, path, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := testutil.DecodeResponse(t, w)
		var tickets []models.Ticket
		testutil.DecodeInto(t, resp.Data, &tickets)
		require.Len(t, tickets, 1, path)
		require.Equal(t, "ticket-1", tickets[0].ID)
		require.Equal(t, 1, resp.Meta.Total)
	}
}

func TestTicketHandler_ListFiltersByStatus(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateOrganization("org-1")
	env.CreateTicket("ticket-1", "org-1", "Open one")
	closed := env.CreateTicket("ticket-2", "org-1", "Closed one")
	require.NoError(t, env.DB.Model(closed).Update("status", models.TicketStatusClosed).Error)
	token := env.TokenFor(env.CreateUser("org-1", "agent", "Password123!"))

	w := env.Request(http.MethodGet, "/api/tickets?status=closed", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var tickets []models.Ticket
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &tickets)
	require.Len(t, tickets, 1)
	require.Equal(t, "ticket-2", tickets[0].ID)
}

func TestTicketHandler_DeleteRequiresPermission(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateOrganization("org-1")
	env.CreateTicket("ticket-1", "org-1", "Disposable")
	agent := env.TokenFor(env.CreateUser("org-1", "agent", "Password123!"))
	admin := env.TokenFor(env.CreateUser("org-1", "org-admin", "Password123!"))

	w := env.Request(http.MethodDelete, "/api/tickets/ticket-1", nil, agent)
	require.Equal(t, http.StatusForbidden, w.Code)
	denial := testutil.DecodeDenial(t, w)
	require.Equal(t, "agent", denial.UserRole)

	w = env.Request(http.MethodDelete, "/api/tickets/ticket-1", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.Request(http.MethodGet, "/api/tickets/ticket-1", nil, admin)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTicketHandler_UpdateOfForeignTicketIsNotFound(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateOrganization("org-1")
	env.CreateOrganization("org-2")
	env.CreateTicket("ticket-9", "org-2", "Someone else's")
	token := env.TokenFor(env.CreateUser("org-1", "agent", "Password123!"))

	w := env.Request(http.MethodPatch, "/api/tickets/ticket-9", map[string]any{"status": "closed"}, token)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Resource not found", testutil.DecodeDenial(t, w).Error)

	var stored models.Ticket
	require.NoError(t, env.DB.First(&stored, "id = ?", "ticket-9").Error)
	require.Equal(t, models.TicketStatusOpen, stored.Status)
}

func TestTicketHandler_RejectsForeignCatalogItem(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateOrganization("org-1")
	env.CreateOrganization("org-2")
	foreign := &models.CatalogItem{OrganizationID: "org-2", Name: "Laptop"}
	require.NoError(t, env.DB.Create(foreign).Error)
	token := env.TokenFor(env.CreateUser("org-1", "agent", "Password123!"))

	w := env.Request(http.MethodPost, "/api/tickets", map[string]any{
		"subject":       "New laptop",
		"catalogItemId": foreign.ID,
	}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := testutil.DecodeResponse(t, w)
	require.Equal(t, "FOREIGN_REFERENCE", resp.Error.Code)
}
