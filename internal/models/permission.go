package models

// Permission mirrors the in-process permission catalog. ID is "resource.action".
type Permission struct {
	BaseModel

	Resource    string `gorm:"size:64;not null;index" json:"resource"`
	Action      string `gorm:"size:64;not null" json:"action"`
	Scope       string `gorm:"size:16;not null" json:"scope"`
	Description string `json:"description"`
	DependsOn   string `gorm:"type:json" json:"dependsOn"`
	Implies     string `gorm:"type:json" json:"implies"`

	Roles []Role `gorm:"many2many:role_permissions;" json:"roles,omitempty"`
}
