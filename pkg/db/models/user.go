package models

import (
	"time"

	"github.com/stickerdash/stickerdash-backend/pkg/enums"
)

// User is the identity row owned by the external auth provider. The id is the
// provider's opaque subject, not a generated key.
type User struct {
	ID        string          `gorm:"column:id;type:text;primaryKey"`
	Name      string          `gorm:"column:name;type:text;not null"`
	Email     string          `gorm:"column:email;type:text;not null;uniqueIndex:users_email_key"`
	Image     *string         `gorm:"column:image;type:text"`
	Role      *enums.UserRole `gorm:"column:role;type:text"`
	Banned    bool            `gorm:"column:banned;not null;default:false"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectiveRole resolves a missing role to the default user role.
func (u User) EffectiveRole() enums.UserRole {
	if u.Role == nil || !u.Role.IsValid() {
		return enums.UserRoleUser
	}
	return *u.Role
}
