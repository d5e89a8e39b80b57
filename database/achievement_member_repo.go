package database

import (
	"github.com/google/uuid"
	"github.com/zeroday-squad/site-backend/models"
	"gorm.io/gorm"
)

type AchievementMemberRepo struct {
	db *gorm.DB
}

func NewAchievementMemberRepo(db *gorm.DB) *AchievementMemberRepo {
	return &AchievementMemberRepo{db}
}

// FindByAchievementID returns the join rows for an achievement.
func (r *AchievementMemberRepo) FindByAchievementID(achievementID uuid.UUID) ([]*models.AchievementMember, error) {
	var members []*models.AchievementMember
	err := r.db.Where("achievement_id = ?", achievementID).Find(&members).Error
	return members, err
}

// AddForAchievement inserts one join row per distinct profile id.
func (r *AchievementMemberRepo) AddForAchievement(achievementID uuid.UUID, profileIDs []uuid.UUID) error {
	rows := buildAchievementMemberRows(achievementID, profileIDs)
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

// ReplaceForAchievement reconciles the membership set with delete-all,
// insert-new semantics, same as ProjectMemberRepo.ReplaceForProject.
func (r *AchievementMemberRepo) ReplaceForAchievement(achievementID uuid.UUID, profileIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("achievement_id = ?", achievementID).Delete(&models.AchievementMember{}).Error; err != nil {
			return err
		}
		rows := buildAchievementMemberRows(achievementID, profileIDs)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func buildAchievementMemberRows(achievementID uuid.UUID, profileIDs []uuid.UUID) []models.AchievementMember {
	seen := make(map[uuid.UUID]struct{}, len(profileIDs))
	rows := make([]models.AchievementMember, 0, len(profileIDs))
	for _, profileID := range profileIDs {
		if _, ok := seen[profileID]; ok {
			continue
		}
		seen[profileID] = struct{}{}
		rows = append(rows, models.AchievementMember{
			ID:            uuid.New(),
			AchievementID: achievementID,
			ProfileID:     profileID,
		})
	}
	return rows
}
