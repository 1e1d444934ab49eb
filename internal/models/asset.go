package models

import "gorm.io/datatypes"

type Asset struct {
	BaseModel

	OrganizationID string         `gorm:"size:64;not null;index" json:"organizationId"`
	ClientID       *string        `gorm:"size:64;index" json:"clientId,omitempty"`
	Name           string         `gorm:"not null" json:"name"`
	Tag            string         `gorm:"size:64;index" json:"tag"`
	Kind           string         `gorm:"size:32" json:"kind"`
	AssignedToID   *string        `gorm:"size:64" json:"assignedToId,omitempty"`
	Specs          datatypes.JSON `json:"specs,omitempty"`
}

func (a Asset) TenantID() string { return a.OrganizationID }
