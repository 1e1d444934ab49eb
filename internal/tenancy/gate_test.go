package tenancy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGateRequiresPrincipal(t *testing.T) {
	decision := Gate(GateInput{AllowedRoles: []string{"org-admin"}})
	require.Equal(t, Unauthenticated, decision.Outcome)

	decision = Gate(GateInput{})
	require.Equal(t, Unauthenticated, decision.Outcome)
}

func TestGateRejectsRoleOutsideAllowList(t *testing.T) {
	principal := &Principal{UserID: "u1", OrganizationID: "org-1", Role: "agent"}

	decision := Gate(GateInput{Principal: principal, AllowedRoles: []string{"org-admin"}, Path: "/api/users"})
	require.Equal(t, Forbidden, decision.Outcome)
	require.Equal(t, "agent", decision.UserRole)
	require.Equal(t, []string{"org-admin"}, decision.RequiredRoles)
}

func TestGateAdmitsListedRole(t *testing.T) {
	principal := &Principal{UserID: "u1", OrganizationID: "org-1", Role: "agent"}

	decision := Gate(GateInput{Principal: principal, AllowedRoles: []string{"org-admin", "agent"}})
	require.True(t, decision.Allowed())
}

func TestGateEmptyAllowListAdmitsAnyPrincipal(t *testing.T) {
	for _, role := range []string{"agent", "client-user", "", "agente"} {
		principal := &Principal{UserID: "u1", OrganizationID: "org-1", Role: role}
		require.True(t, Gate(GateInput{Principal: principal}).Allowed(), role)
	}
}

func TestGateCopiesAllowList(t *testing.T) {
	allowed := []string{"org-admin"}
	decision := Gate(GateInput{Principal: &Principal{Role: "agent"}, AllowedRoles: allowed})
	allowed[0] = "changed"
	require.Equal(t, []string{"org-admin"}, decision.RequiredRoles)
}
