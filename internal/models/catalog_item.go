package models

type CatalogItem struct {
	BaseModel

	OrganizationID string `gorm:"size:64;not null;index" json:"organizationId"`
	Name           string `gorm:"not null" json:"name"`
	Category       string `gorm:"size:64" json:"category"`
	SLAHours       int    `gorm:"default:24" json:"slaHours"`
	Active         bool   `gorm:"default:true" json:"active"`
}

func (c CatalogItem) TenantID() string { return c.OrganizationID }
