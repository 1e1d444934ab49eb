package models

import (
	"strings"

	"gorm.io/gorm"
)

// User is an operator or client contact. Users always belong to a single organization.
type User struct {
	BaseModel

	OrganizationID string  `gorm:"size:64;not null;index" json:"organizationId"`
	ClientID       *string `gorm:"size:64;index" json:"clientId,omitempty"`
	Email          string  `gorm:"uniqueIndex;not null" json:"email"`
	Name           string  `json:"name"`
	Password       string  `gorm:"not null" json:"-"`
	Role           string  `gorm:"size:64;not null;index" json:"role"`
	IsActive       bool    `gorm:"default:true" json:"isActive"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

// BeforeSave normalises the login email.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Role = strings.TrimSpace(u.Role)
	return nil
}

func (u User) TenantID() string { return u.OrganizationID }
