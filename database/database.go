package database

import (
	"gorm.io/gorm"
)

type Database struct {
	userRepo              *UserRepo
	userRoleRepo          *UserRoleRepo
	profileRepo           *ProfileRepo
	projectRepo           *ProjectRepo
	projectMemberRepo     *ProjectMemberRepo
	achievementRepo       *AchievementRepo
	achievementMemberRepo *AchievementMemberRepo
	siteStatRepo          *SiteStatRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:              NewUserRepo(db),
		userRoleRepo:          NewUserRoleRepo(db),
		profileRepo:           NewProfileRepo(db),
		projectRepo:           NewProjectRepo(db),
		projectMemberRepo:     NewProjectMemberRepo(db),
		achievementRepo:       NewAchievementRepo(db),
		achievementMemberRepo: NewAchievementMemberRepo(db),
		siteStatRepo:          NewSiteStatRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) UserRoleRepo() *UserRoleRepo {
	return d.userRoleRepo
}

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProjectMemberRepo() *ProjectMemberRepo {
	return d.projectMemberRepo
}

func (d Database) AchievementRepo() *AchievementRepo {
	return d.achievementRepo
}

func (d Database) AchievementMemberRepo() *AchievementMemberRepo {
	return d.achievementMemberRepo
}

func (d Database) SiteStatRepo() *SiteStatRepo {
	return d.siteStatRepo
}
