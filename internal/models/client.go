package models

// Client is a customer company served by an organization.
type Client struct {
	BaseModel

	OrganizationID string `gorm:"size:64;not null;index" json:"organizationId"`
	Name           string `gorm:"not null" json:"name"`
	Document       string `json:"document,omitempty"`
}

func (c Client) TenantID() string { return c.OrganizationID }
