package models

// RoleLevel describes where a role applies.
type RoleLevel string

const (
	RoleLevelOrganization RoleLevel = "organization"
	RoleLevelClient       RoleLevel = "client"
	RoleLevelUser         RoleLevel = "user"
)

// Role groups permissions. System roles have no owner and are shared by all tenants;
// other roles are owned by an organization and optionally narrowed to a client.
type Role struct {
	BaseModel

	Name           string    `gorm:"size:64;not null;index" json:"name"`
	Description    string    `json:"description"`
	Level          RoleLevel `gorm:"size:16;not null;default:organization" json:"level"`
	OrganizationID *string   `gorm:"size:64;index" json:"organizationId,omitempty"`
	ClientID       *string   `gorm:"size:64;index" json:"clientId,omitempty"`
	IsSystem       bool      `gorm:"default:false" json:"isSystem"`
	Priority       int       `gorm:"default:0" json:"priority"`

	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}
