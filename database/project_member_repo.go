package database

import (
	"github.com/google/uuid"
	"github.com/zeroday-squad/site-backend/models"
	"gorm.io/gorm"
)

type ProjectMemberRepo struct {
	db *gorm.DB
}

func NewProjectMemberRepo(db *gorm.DB) *ProjectMemberRepo {
	return &ProjectMemberRepo{db}
}

// FindByProjectID returns the join rows for a project.
func (r *ProjectMemberRepo) FindByProjectID(projectID uuid.UUID) ([]*models.ProjectMember, error) {
	var members []*models.ProjectMember
	err := r.db.Where("project_id = ?", projectID).Find(&members).Error
	return members, err
}

// AddForProject inserts one join row per distinct profile id. Duplicate
// ids in the input collapse to a single row.
func (r *ProjectMemberRepo) AddForProject(projectID uuid.UUID, profileIDs []uuid.UUID) error {
	rows := buildProjectMemberRows(projectID, profileIDs)
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

// ReplaceForProject reconciles the membership set: every existing join row
// for the project is deleted, then the supplied set is inserted. Running
// the same replacement twice leaves the same rows behind.
func (r *ProjectMemberRepo) ReplaceForProject(projectID uuid.UUID, profileIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		rows := buildProjectMemberRows(projectID, profileIDs)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func buildProjectMemberRows(projectID uuid.UUID, profileIDs []uuid.UUID) []models.ProjectMember {
	seen := make(map[uuid.UUID]struct{}, len(profileIDs))
	rows := make([]models.ProjectMember, 0, len(profileIDs))
	for _, profileID := range profileIDs {
		if _, ok := seen[profileID]; ok {
			continue
		}
		seen[profileID] = struct{}{}
		rows = append(rows, models.ProjectMember{
			ID:        uuid.New(),
			ProjectID: projectID,
			ProfileID: profileID,
		})
	}
	return rows
}
