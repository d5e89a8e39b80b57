package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// UserRole maps an account to exactly one role. Every account gets a
// "member" row at signup; promotion to "admin" is an admin-only update.
type UserRole struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_role_user;constraint:OnDelete:CASCADE"`
	Role      string    `json:"role" db:"role" gorm:"type:text;not null;default:member"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// ValidRole reports whether s is one of the two recognized roles.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleMember
}
