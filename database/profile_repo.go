package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/zeroday-squad/site-backend/models"
	"gorm.io/gorm"
)

type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db}
}

// FindAll returns all profiles, newest first.
func (r *ProfileRepo) FindAll() ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := r.db.Order("created_at DESC").Find(&profiles).Error
	return profiles, err
}

// FindByID returns a profile by its ID, or nil if no such profile exists.
func (r *ProfileRepo) FindByID(id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUserID returns the profile belonging to an account, or nil.
func (r *ProfileRepo) FindByUserID(userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByIDs batch-fetches the profiles for the given ids. Missing ids are
// skipped, not errors; callers use this to resolve membership sets where a
// profile may have been deleted after the join row was written.
func (r *ProfileRepo) FindByIDs(ids []uuid.UUID) ([]models.Profile, error) {
	if len(ids) == 0 {
		return []models.Profile{}, nil
	}
	var profiles []models.Profile
	err := r.db.Where("id IN ?", ids).Find(&profiles).Error
	return profiles, err
}

// Add inserts a new profile into the database.
func (r *ProfileRepo) Add(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// Update saves an existing profile.
func (r *ProfileRepo) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}
