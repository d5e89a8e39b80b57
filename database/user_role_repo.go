package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/zeroday-squad/site-backend/models"
	"gorm.io/gorm"
)

type UserRoleRepo struct {
	db *gorm.DB
}

func NewUserRoleRepo(db *gorm.DB) *UserRoleRepo {
	return &UserRoleRepo{db}
}

// FindByUserID returns the role row for an account, or nil if the account
// has no role row.
func (r *UserRoleRepo) FindByUserID(userID uuid.UUID) (*models.UserRole, error) {
	var role models.UserRole
	err := r.db.First(&role, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// FindAll returns every role row, used to join roles onto profiles in
// application code.
func (r *UserRoleRepo) FindAll() ([]*models.UserRole, error) {
	var roles []*models.UserRole
	err := r.db.Find(&roles).Error
	return roles, err
}

// Add inserts a new role row.
func (r *UserRoleRepo) Add(role *models.UserRole) error {
	return r.db.Create(role).Error
}

// SetRole updates the role for an account in place.
func (r *UserRoleRepo) SetRole(userID uuid.UUID, role string) error {
	return r.db.Model(&models.UserRole{}).Where("user_id = ?", userID).Update("role", role).Error
}
