package models

import "gorm.io/datatypes"

// AuditLog records authorization denials and tenant-boundary warnings.
type AuditLog struct {
	BaseModel

	UserID         *string        `gorm:"size:64;index" json:"userId,omitempty"`
	Email          string         `json:"email"`
	OrganizationID string         `gorm:"size:64;index" json:"organizationId"`
	Action         string         `gorm:"size:64;not null;index" json:"action"`
	Resource       string         `gorm:"size:64;index" json:"resource"`
	ResourceID     string         `gorm:"size:64" json:"resourceId,omitempty"`
	Result         string         `gorm:"size:16;not null" json:"result"`
	Path           string         `json:"path"`
	Metadata       datatypes.JSON `json:"metadata,omitempty"`
}
