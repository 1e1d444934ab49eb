package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrganizationServiceCreate(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewOrganizationService(db)
	require.NoError(t, err)

	ctx := context.Background()
	org, err := svc.Create(ctx, CreateOrganizationInput{Name: "Acme IT Services", Settings: map[string]any{"locale": "pt-BR"}})
	require.NoError(t, err)
	require.Equal(t, "acme-it-services", org.Slug)

	_, err = svc.Create(ctx, CreateOrganizationInput{Name: "Acme", Slug: "acme-it-services"})
	require.ErrorIs(t, err, ErrSlugTaken)

	loaded, err := svc.GetByID(ctx, org.ID)
	require.NoError(t, err)
	require.JSONEq(t, `{"locale":"pt-BR"}`, string(loaded.Settings))

	_, err = svc.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestOrganizationServiceCreateClient(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewOrganizationService(db)
	require.NoError(t, err)

	client, err := svc.CreateClient(context.Background(), "org-1", "Bakery", "12.345.678/0001-90")
	require.NoError(t, err)
	require.Equal(t, "org-1", client.OrganizationID)

	_, err = svc.CreateClient(context.Background(), "org-404", "Ghost", "")
	require.ErrorIs(t, err, ErrOrganizationNotFound)
}
