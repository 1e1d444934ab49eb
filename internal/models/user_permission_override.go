package models

import "time"

// UserPermissionOverride grants or revokes one permission for one user, optionally until ExpiresAt.
type UserPermissionOverride struct {
	BaseModel

	UserID       string     `gorm:"size:64;not null;index:idx_override_user_perm,priority:1" json:"userId"`
	PermissionID string     `gorm:"size:128;not null;index:idx_override_user_perm,priority:2" json:"permissionId"`
	Granted      bool       `gorm:"not null" json:"granted"`
	ExpiresAt    *time.Time `gorm:"index" json:"expiresAt,omitempty"`
	Reason       string     `json:"reason"`
	GrantedByID  *string    `gorm:"size:64" json:"grantedById,omitempty"`

	User       *User       `gorm:"foreignKey:UserID" json:"-"`
	Permission *Permission `gorm:"foreignKey:PermissionID" json:"-"`
}

// Active reports whether the override still applies at the given instant.
func (o UserPermissionOverride) Active(now time.Time) bool {
	return o.ExpiresAt == nil || o.ExpiresAt.After(now)
}
