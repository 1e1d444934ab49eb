package models

import "gorm.io/datatypes"

// Organization is the tenant boundary. Every scoped row points at one.
type Organization struct {
	BaseModel

	Name     string         `gorm:"not null" json:"name"`
	Slug     string         `gorm:"uniqueIndex;size:64" json:"slug"`
	Settings datatypes.JSON `json:"settings,omitempty"`

	Clients []Client `gorm:"foreignKey:OrganizationID" json:"clients,omitempty"`
	Users   []User   `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
}
