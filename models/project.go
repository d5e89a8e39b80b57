package models

import (
	"time"

	"github.com/google/uuid"
)

// Project lifecycle statuses.
const (
	ProjectStatusActive      = "active"
	ProjectStatusDevelopment = "development"
	ProjectStatusCompleted   = "completed"
	ProjectStatusClassified  = "classified"
)

// Project represents a showcased unit of work. Solo projects carry an
// owner profile reference; team projects carry a membership set instead.
type Project struct {
	ID            uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title         string     `json:"title" db:"title" gorm:"type:text;not null"`
	Description   *string    `json:"description" db:"description" gorm:"type:text"`
	Status        string     `json:"status" db:"status" gorm:"type:text;not null;default:active"`
	IsTeamProject bool       `json:"is_team_project" db:"is_team_project" gorm:"not null;default:false"`
	OwnerID       *uuid.UUID `json:"owner_id" db:"owner_id" gorm:"type:uuid;index:idx_project_owner"`
	GithubURL     *string    `json:"github_url" db:"github_url" gorm:"type:text"`
	DemoURL       *string    `json:"demo_url" db:"demo_url" gorm:"type:text"`
	ImageURL      *string    `json:"image_url" db:"image_url" gorm:"type:text"`
	Tags          []string   `json:"tags" db:"tags" gorm:"serializer:json"`
	Language      *string    `json:"language" db:"language" gorm:"type:text"`
	Stars         int        `json:"stars" db:"stars" gorm:"not null;default:0"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	// Resolved relations, filled by the enrichment layer, never persisted.
	Owner   *Profile  `json:"owner,omitempty" gorm:"-"`
	Members []Profile `json:"members" gorm:"-"`
}

// ValidProjectStatus reports whether s is a recognized lifecycle status.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusActive, ProjectStatusDevelopment, ProjectStatusCompleted, ProjectStatusClassified:
		return true
	}
	return false
}
