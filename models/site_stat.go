package models

import (
	"time"

	"github.com/google/uuid"
)

// SiteStat is a labeled counter shown on the homepage, ordered by
// DisplayOrder ascending. Admin-managed.
type SiteStat struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	StatKey      string    `json:"stat_key" db:"stat_key" gorm:"type:text;not null;unique"`
	StatLabel    string    `json:"stat_label" db:"stat_label" gorm:"type:text;not null"`
	StatValue    int       `json:"stat_value" db:"stat_value" gorm:"not null;default:0"`
	DisplayOrder int       `json:"display_order" db:"display_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
