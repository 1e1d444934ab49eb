package permissions

import "github.com/deskward/deskward/internal/models"

// System role names shared by every tenant.
const (
	RoleOrgAdmin    = "org-admin"
	RoleAgent       = "agent"
	RoleClientAdmin = "client-admin"
	RoleClientUser  = "client-user"
)

// RoleTemplate describes a system role seeded at start-up.
type RoleTemplate struct {
	Name        string
	Description string
	Level       models.RoleLevel
	Priority    int
	Permissions []string
}

// SystemRoles returns the default roles every organization can use.
func SystemRoles() []RoleTemplate {
	return []RoleTemplate{
		{
			Name:        RoleOrgAdmin,
			Description: "Organization administrator",
			Level:       models.RoleLevelOrganization,
			Priority:    100,
			Permissions: []string{
				Key(ResourceTicket, ActionManage),
				"user.view", "user.create", "user.edit", "user.delete",
				"organization.view", "organization.manage",
				"client.view", "client.manage",
				CatalogItemView, CatalogItemCreate, "catalog_item.edit",
				AssetView, AssetCreate, "asset.edit",
				"time_entry.view", "time_entry.create",
				"remote_session.view", "remote_session.start",
				"role.view", "role.manage",
				PermissionView, PermissionManage,
				"audit.view", "audit.export",
			},
		},
		{
			Name:        RoleAgent,
			Description: "Helpdesk agent",
			Level:       models.RoleLevelOrganization,
			Priority:    50,
			Permissions: []string{
				TicketView, TicketCreate, TicketEdit,
				"user.view", "client.view",
				CatalogItemView, AssetView,
				"time_entry.view", "time_entry.create",
				"remote_session.view", "remote_session.start",
			},
		},
		{
			Name:        RoleClientAdmin,
			Description: "Client company administrator",
			Level:       models.RoleLevelClient,
			Priority:    40,
			Permissions: []string{TicketView, TicketCreate, CatalogItemView, AssetView, AssetCreate, "user.view"},
		},
		{
			Name:        RoleClientUser,
			Description: "Client company end user",
			Level:       models.RoleLevelUser,
			Priority:    10,
			Permissions: []string{TicketView, TicketCreate, CatalogItemView},
		},
	}
}
