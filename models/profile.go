package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public identity record for a person. One profile per
// account; it is removed transitively when the account is deleted.
type Profile struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID      uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_profile_user;constraint:OnDelete:CASCADE"`
	Username    *string   `json:"username" db:"username" gorm:"type:text"`
	Email       *string   `json:"email" db:"email" gorm:"type:text"`
	FullName    *string   `json:"full_name" db:"full_name" gorm:"type:text"`
	Bio         *string   `json:"bio" db:"bio" gorm:"type:text"`
	Skills      []string  `json:"skills" db:"skills" gorm:"serializer:json"`
	AvatarURL   *string   `json:"avatar_url" db:"avatar_url" gorm:"type:text"`
	GithubURL   *string   `json:"github_url" db:"github_url" gorm:"type:text"`
	LinkedinURL *string   `json:"linkedin_url" db:"linkedin_url" gorm:"type:text"`
	TwitterURL  *string   `json:"twitter_url" db:"twitter_url" gorm:"type:text"`
	WebsiteURL  *string   `json:"website_url" db:"website_url" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// ProfileWithRole pairs a profile with its account's role for the admin
// members table. Accounts missing a role row default to "member".
type ProfileWithRole struct {
	Profile
	Role string `json:"role"`
}
