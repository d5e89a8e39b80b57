package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/zeroday-squad/site-backend/models"
	"gorm.io/gorm"
)

type SiteStatRepo struct {
	db *gorm.DB
}

func NewSiteStatRepo(db *gorm.DB) *SiteStatRepo {
	return &SiteStatRepo{db}
}

// FindAll returns all stats in display order.
func (r *SiteStatRepo) FindAll() ([]*models.SiteStat, error) {
	var stats []*models.SiteStat
	err := r.db.Order("display_order ASC").Find(&stats).Error
	return stats, err
}

// FindByID returns a stat by its ID, or nil if none exists.
func (r *SiteStatRepo) FindByID(id uuid.UUID) (*models.SiteStat, error) {
	var stat models.SiteStat
	err := r.db.First(&stat, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// Add inserts a new stat into the database.
func (r *SiteStatRepo) Add(stat *models.SiteStat) error {
	return r.db.Create(stat).Error
}

// Update saves an existing stat.
func (r *SiteStatRepo) Update(stat *models.SiteStat) error {
	return r.db.Save(stat).Error
}

// Delete removes a stat by id.
func (r *SiteStatRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.SiteStat{}, "id = ?", id).Error
}
