package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBaseModelBeforeCreateGeneratesID(t *testing.T) {
	var base BaseModel
	require.NoError(t, base.BeforeCreate(nil))
	require.NotEmpty(t, base.ID)

	preset := BaseModel{ID: "ticket-42"}
	require.NoError(t, preset.BeforeCreate(nil))
	require.Equal(t, "ticket-42", preset.ID)
}

func TestTenantScopedModels(t *testing.T) {
	cases := []struct {
		name  string
		model TenantScoped
	}{
		{"ticket", Ticket{OrganizationID: "org-1"}},
		{"asset", Asset{OrganizationID: "org-1"}},
		{"catalog_item", CatalogItem{OrganizationID: "org-1"}},
		{"client", Client{OrganizationID: "org-1"}},
		{"user", User{OrganizationID: "org-1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, "org-1", tc.model.TenantID())
		})
	}
}

func TestUserBeforeSaveNormalisesEmail(t *testing.T) {
	u := &User{Email: "  Agent@Example.COM ", Role: " agent "}
	require.NoError(t, u.BeforeSave(nil))
	require.Equal(t, "agent@example.com", u.Email)
	require.Equal(t, "agent", u.Role)
}

func TestOverrideActive(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	require.True(t, UserPermissionOverride{}.Active(now))
	require.True(t, UserPermissionOverride{ExpiresAt: &future}.Active(now))
	require.False(t, UserPermissionOverride{ExpiresAt: &past}.Active(now))
	require.False(t, UserPermissionOverride{ExpiresAt: &now}.Active(now))
}
