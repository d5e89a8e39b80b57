package models

import (
	"time"

	"github.com/google/uuid"
)

// Achievement categories.
const (
	AchievementTypeCompetition   = "competition"
	AchievementTypeRecognition   = "recognition"
	AchievementTypeRanking       = "ranking"
	AchievementTypeDiscovery     = "discovery"
	AchievementTypeCertification = "certification"
)

// Achievement mirrors Project's ownership/team duality for showcased
// accomplishments: CTF placements, CVE credits, certifications and so on.
type Achievement struct {
	ID                uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title             string     `json:"title" db:"title" gorm:"type:text;not null"`
	Description       *string    `json:"description" db:"description" gorm:"type:text"`
	AchievementType   string     `json:"achievement_type" db:"achievement_type" gorm:"type:text;not null;default:recognition"`
	AchievementDate   *time.Time `json:"achievement_date" db:"achievement_date" gorm:"type:date"`
	Icon              *string    `json:"icon" db:"icon" gorm:"type:text"`
	ImageURL          *string    `json:"image_url" db:"image_url" gorm:"type:text"`
	IsTeamAchievement bool       `json:"is_team_achievement" db:"is_team_achievement" gorm:"not null;default:false"`
	OwnerID           *uuid.UUID `json:"owner_id" db:"owner_id" gorm:"type:uuid;index:idx_achievement_owner"`
	IsHighlighted     bool       `json:"is_highlighted" db:"is_highlighted" gorm:"not null;default:false"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`

	// Resolved relations, filled by the enrichment layer, never persisted.
	Owner   *Profile  `json:"owner,omitempty" gorm:"-"`
	Members []Profile `json:"members" gorm:"-"`
}

// ValidAchievementType reports whether s is a recognized category.
func ValidAchievementType(s string) bool {
	switch s {
	case AchievementTypeCompetition, AchievementTypeRecognition, AchievementTypeRanking,
		AchievementTypeDiscovery, AchievementTypeCertification:
		return true
	}
	return false
}
