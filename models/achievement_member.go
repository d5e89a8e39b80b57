package models

import (
	"time"

	"github.com/google/uuid"
)

// AchievementMember links a profile to a team achievement.
type AchievementMember struct {
	ID            uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	AchievementID uuid.UUID `json:"achievement_id" db:"achievement_id" gorm:"type:uuid;not null;index:idx_achievement_member_achievement;uniqueIndex:idx_achievement_member_unique;constraint:OnDelete:CASCADE"`
	ProfileID     uuid.UUID `json:"profile_id" db:"profile_id" gorm:"type:uuid;not null;uniqueIndex:idx_achievement_member_unique;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Achievement Achievement `json:"-" gorm:"foreignKey:AchievementID;references:ID;constraint:OnDelete:CASCADE"`
	Profile     Profile     `json:"-" gorm:"foreignKey:ProfileID;references:ID;constraint:OnDelete:CASCADE"`
}
