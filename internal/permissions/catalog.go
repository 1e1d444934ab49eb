package permissions

import (
	"fmt"
	"strings"
)

// Resource is a closed enumeration of the entities permissions can target.
type Resource string

const (
	ResourceTicket        Resource = "ticket"
	ResourceUser          Resource = "user"
	ResourceOrganization  Resource = "organization"
	ResourceClient        Resource = "client"
	ResourceCatalogItem   Resource = "catalog_item"
	ResourceAsset         Resource = "asset"
	ResourceTimeEntry     Resource = "time_entry"
	ResourceRemoteSession Resource = "remote_session"
	ResourceRole          Resource = "role"
	ResourcePermission    Resource = "permission"
	ResourceAudit         Resource = "audit"
)

// Action is a closed enumeration of verbs.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionAssign Action = "assign"
	ActionManage Action = "manage"
	ActionExport Action = "export"
	ActionStart  Action = "start"
)

// Scope is the boundary within which a permission applies.
type Scope string

const (
	ScopeGlobal       Scope = "global"
	ScopeOrganization Scope = "organization"
	ScopeClient       Scope = "client"
	ScopeOwn          Scope = "own"
)

var knownResources = map[Resource]struct{}{
	ResourceTicket:        {},
	ResourceUser:          {},
	ResourceOrganization:  {},
	ResourceClient:        {},
	ResourceCatalogItem:   {},
	ResourceAsset:         {},
	ResourceTimeEntry:     {},
	ResourceRemoteSession: {},
	ResourceRole:          {},
	ResourcePermission:    {},
	ResourceAudit:         {},
}

var knownActions = map[Action]struct{}{
	ActionView:   {},
	ActionCreate: {},
	ActionEdit:   {},
	ActionDelete: {},
	ActionAssign: {},
	ActionManage: {},
	ActionExport: {},
	ActionStart:  {},
}

var knownScopes = map[Scope]struct{}{
	ScopeGlobal:       {},
	ScopeOrganization: {},
	ScopeClient:       {},
	ScopeOwn:          {},
}

func (r Resource) Valid() bool { _, ok := knownResources[r]; return ok }
func (a Action) Valid() bool   { _, ok := knownActions[a]; return ok }
func (s Scope) Valid() bool    { _, ok := knownScopes[s]; return ok }

// Key renders the canonical "resource.action" identifier.
func Key(resource Resource, action Action) string {
	return string(resource) + "." + string(action)
}

// ParseID splits a "resource.action" identifier and checks both halves against the enumerations.
func ParseID(id string) (Resource, Action, error) {
	resource, action, ok := strings.Cut(strings.TrimSpace(id), ".")
	if !ok || resource == "" || action == "" {
		return "", "", fmt.Errorf("%w %q: expected resource.action", ErrUnknownPermission, id)
	}
	r, a := Resource(resource), Action(action)
	if !r.Valid() {
		return "", "", fmt.Errorf("%w %q: unknown resource %q", ErrUnknownPermission, id, resource)
	}
	if !a.Valid() {
		return "", "", fmt.Errorf("%w %q: unknown action %q", ErrUnknownPermission, id, action)
	}
	return r, a, nil
}

// Helpdesk permission identifiers referenced by routes.
var (
	TicketView   = Key(ResourceTicket, ActionView)
	TicketCreate = Key(ResourceTicket, ActionCreate)
	TicketEdit   = Key(ResourceTicket, ActionEdit)
	TicketAssign = Key(ResourceTicket, ActionAssign)
	TicketDelete = Key(ResourceTicket, ActionDelete)

	AssetView   = Key(ResourceAsset, ActionView)
	AssetCreate = Key(ResourceAsset, ActionCreate)

	CatalogItemView   = Key(ResourceCatalogItem, ActionView)
	CatalogItemCreate = Key(ResourceCatalogItem, ActionCreate)

	PermissionView   = Key(ResourcePermission, ActionView)
	PermissionManage = Key(ResourcePermission, ActionManage)
)

func init() {
	perms := []*Permission{
		{Resource: ResourceTicket, Action: ActionView, Scope: ScopeOrganization, Description: "View tickets"},
		{Resource: ResourceTicket, Action: ActionCreate, Scope: ScopeOrganization, DependsOn: []string{TicketView}, Description: "Open tickets"},
		{Resource: ResourceTicket, Action: ActionEdit, Scope: ScopeOrganization, DependsOn: []string{TicketView}, Description: "Update tickets"},
		{Resource: ResourceTicket, Action: ActionAssign, Scope: ScopeOrganization, DependsOn: []string{TicketView, TicketEdit}, Description: "Assign tickets to agents"},
		{Resource: ResourceTicket, Action: ActionDelete, Scope: ScopeOrganization, DependsOn: []string{TicketView}, Description: "Delete tickets"},
		{Resource: ResourceTicket, Action: ActionManage, Scope: ScopeOrganization, Implies: []string{TicketView, TicketCreate, TicketEdit, TicketAssign, TicketDelete}, Description: "Full ticket management"},

		{Resource: ResourceUser, Action: ActionView, Scope: ScopeOrganization, Description: "View users"},
		{Resource: ResourceUser, Action: ActionCreate, Scope: ScopeOrganization, DependsOn: []string{"user.view"}, Description: "Create users"},
		{Resource: ResourceUser, Action: ActionEdit, Scope: ScopeOrganization, DependsOn: []string{"user.view"}, Description: "Edit users"},
		{Resource: ResourceUser, Action: ActionDelete, Scope: ScopeOrganization, DependsOn: []string{"user.view", "user.edit"}, Description: "Delete users"},

		{Resource: ResourceOrganization, Action: ActionView, Scope: ScopeOrganization, Description: "View organization settings"},
		{Resource: ResourceOrganization, Action: ActionManage, Scope: ScopeOrganization, DependsOn: []string{"organization.view"}, Description: "Manage organization settings"},
		{Resource: ResourceOrganization, Action: ActionCreate, Scope: ScopeGlobal, Description: "Create organizations"},

		{Resource: ResourceClient, Action: ActionView, Scope: ScopeOrganization, Description: "View client companies"},
		{Resource: ResourceClient, Action: ActionManage, Scope: ScopeOrganization, DependsOn: []string{"client.view"}, Description: "Manage client companies"},

		{Resource: ResourceCatalogItem, Action: ActionView, Scope: ScopeOrganization, Description: "View service catalog"},
		{Resource: ResourceCatalogItem, Action: ActionCreate, Scope: ScopeOrganization, DependsOn: []string{CatalogItemView}, Description: "Create catalog items"},
		{Resource: ResourceCatalogItem, Action: ActionEdit, Scope: ScopeOrganization, DependsOn: []string{CatalogItemView}, Description: "Edit catalog items"},

		{Resource: ResourceAsset, Action: ActionView, Scope: ScopeClient, Description: "View assets"},
		{Resource: ResourceAsset, Action: ActionCreate, Scope: ScopeClient, DependsOn: []string{AssetView}, Description: "Register assets"},
		{Resource: ResourceAsset, Action: ActionEdit, Scope: ScopeClient, DependsOn: []string{AssetView}, Description: "Edit assets"},

		{Resource: ResourceTimeEntry, Action: ActionView, Scope: ScopeOwn, Description: "View time entries"},
		{Resource: ResourceTimeEntry, Action: ActionCreate, Scope: ScopeOwn, DependsOn: []string{"time_entry.view"}, Description: "Log time"},

		{Resource: ResourceRemoteSession, Action: ActionView, Scope: ScopeOrganization, Description: "View remote sessions"},
		{Resource: ResourceRemoteSession, Action: ActionStart, Scope: ScopeOrganization, DependsOn: []string{"remote_session.view"}, Description: "Start remote sessions"},

		{Resource: ResourceRole, Action: ActionView, Scope: ScopeOrganization, Description: "View roles"},
		{Resource: ResourceRole, Action: ActionManage, Scope: ScopeOrganization, DependsOn: []string{"role.view"}, Description: "Manage roles"},

		{Resource: ResourcePermission, Action: ActionView, Scope: ScopeOrganization, Description: "View permissions and overrides"},
		{Resource: ResourcePermission, Action: ActionManage, Scope: ScopeOrganization, DependsOn: []string{PermissionView}, Description: "Grant and revoke user overrides"},

		{Resource: ResourceAudit, Action: ActionView, Scope: ScopeOrganization, Description: "View audit logs"},
		{Resource: ResourceAudit, Action: ActionExport, Scope: ScopeOrganization, DependsOn: []string{"audit.view"}, Description: "Export audit logs"},
	}

	for _, perm := range perms {
		if err := Register(perm); err != nil {
			panic(err)
		}
	}
}
