package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/zeroday-squad/site-backend/models"
	"gorm.io/gorm"
)

type AchievementRepo struct {
	db *gorm.DB
}

func NewAchievementRepo(db *gorm.DB) *AchievementRepo {
	return &AchievementRepo{db}
}

// FindAll returns all achievements, newest first.
func (r *AchievementRepo) FindAll() ([]*models.Achievement, error) {
	var achievements []*models.Achievement
	err := r.db.Order("created_at DESC").Find(&achievements).Error
	return achievements, err
}

// FindByID returns an achievement by its ID, or nil if none exists.
func (r *AchievementRepo) FindByID(id uuid.UUID) (*models.Achievement, error) {
	var achievement models.Achievement
	err := r.db.First(&achievement, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &achievement, nil
}

// Add inserts a new achievement into the database.
func (r *AchievementRepo) Add(achievement *models.Achievement) error {
	return r.db.Create(achievement).Error
}

// Update saves an existing achievement.
func (r *AchievementRepo) Update(achievement *models.Achievement) error {
	return r.db.Save(achievement).Error
}

// Delete removes an achievement by id. Membership join rows cascade.
func (r *AchievementRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Achievement{}, "id = ?", id).Error
}
