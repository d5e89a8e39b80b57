package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectMember links a profile to a team project. The (project, profile)
// pair is unique; the set is fully replaced on reconciliation, never patched.
type ProjectMember struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_member_project;uniqueIndex:idx_project_member_unique;constraint:OnDelete:CASCADE"`
	ProfileID uuid.UUID `json:"profile_id" db:"profile_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_member_unique;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Project Project `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Profile Profile `json:"-" gorm:"foreignKey:ProfileID;references:ID;constraint:OnDelete:CASCADE"`
}
