package api

import (
	"time"

	"github.com/zeroday-squad/site-backend/config"
	"github.com/zeroday-squad/site-backend/database"
	"github.com/zeroday-squad/site-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, router *router, jwtSecret []byte) *routeHandlers {
	enricher := services.NewEnricher(database.ProfileRepo(), database.ProjectMemberRepo(), database.AchievementMemberRepo())
	tokenExpiry := config.GetDuration(router.config, "JWT_EXPIRY", 24*time.Hour)

	return &routeHandlers{
		authHandler:        newAuthHandler(database.UserRepo(), database.UserRoleRepo(), database.ProfileRepo(), jwtSecret, tokenExpiry),
		profileHandler:     newProfileHandler(database.ProfileRepo(), database.UserRoleRepo(), router.cache),
		projectHandler:     newProjectHandler(database.ProjectRepo(), database.ProjectMemberRepo(), enricher, router.cache),
		achievementHandler: newAchievementHandler(database.AchievementRepo(), database.AchievementMemberRepo(), enricher, router.cache),
		siteStatHandler:    newSiteStatHandler(database.SiteStatRepo(), router.cache),
		uploadHandler:      newUploadHandler(router.blobStore),
		deleteUserHandler:  newDeleteUserHandler(database.UserRepo(), database.UserRoleRepo(), router.cache, jwtSecret),
	}
}
