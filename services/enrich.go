package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zeroday-squad/site-backend/database"
	"github.com/zeroday-squad/site-backend/models"
)

// Enricher resolves owner and member relations onto projects and
// achievements. Each row is resolved independently and concurrently; a
// failed lookup degrades that row (nil owner, missing member) instead of
// failing the collection.
type Enricher struct {
	logger                zerolog.Logger
	profileRepo           *database.ProfileRepo
	projectMemberRepo     *database.ProjectMemberRepo
	achievementMemberRepo *database.AchievementMemberRepo
}

func NewEnricher(profileRepo *database.ProfileRepo, projectMemberRepo *database.ProjectMemberRepo, achievementMemberRepo *database.AchievementMemberRepo) *Enricher {
	logger := log.With().Str("serviceName", "enricher").Logger()
	return &Enricher{
		logger:                logger,
		profileRepo:           profileRepo,
		projectMemberRepo:     projectMemberRepo,
		achievementMemberRepo: achievementMemberRepo,
	}
}

// EnrichProjects fills Owner and Members for every project in place.
// Collection order is preserved; results are joined back by index.
func (e *Enricher) EnrichProjects(ctx context.Context, projects []*models.Project) {
	var wg sync.WaitGroup
	for _, project := range projects {
		wg.Add(1)
		go func(p *models.Project) {
			defer wg.Done()
			e.enrichProject(ctx, p)
		}(project)
	}
	wg.Wait()
}

// EnrichProject fills Owner and Members for a single project in place.
func (e *Enricher) EnrichProject(ctx context.Context, project *models.Project) {
	e.enrichProject(ctx, project)
}

func (e *Enricher) enrichProject(ctx context.Context, project *models.Project) {
	project.Members = []models.Profile{}
	if err := ctx.Err(); err != nil {
		return
	}

	if project.OwnerID != nil {
		owner, err := e.profileRepo.FindByID(*project.OwnerID)
		if err != nil {
			e.logger.Warn().Err(err).Str("projectID", project.ID.String()).Msg("owner lookup failed")
		}
		project.Owner = owner
	}

	if project.IsTeamProject {
		rows, err := e.projectMemberRepo.FindByProjectID(project.ID)
		if err != nil {
			e.logger.Warn().Err(err).Str("projectID", project.ID.String()).Msg("member rows lookup failed")
			return
		}
		project.Members = e.resolveProfiles(rows2ProjectProfileIDs(rows))
	}
}

// EnrichAchievements fills Owner and Members for every achievement in place.
func (e *Enricher) EnrichAchievements(ctx context.Context, achievements []*models.Achievement) {
	var wg sync.WaitGroup
	for _, achievement := range achievements {
		wg.Add(1)
		go func(a *models.Achievement) {
			defer wg.Done()
			e.enrichAchievement(ctx, a)
		}(achievement)
	}
	wg.Wait()
}

// EnrichAchievement fills Owner and Members for a single achievement in place.
func (e *Enricher) EnrichAchievement(ctx context.Context, achievement *models.Achievement) {
	e.enrichAchievement(ctx, achievement)
}

func (e *Enricher) enrichAchievement(ctx context.Context, achievement *models.Achievement) {
	achievement.Members = []models.Profile{}
	if err := ctx.Err(); err != nil {
		return
	}

	if achievement.OwnerID != nil {
		owner, err := e.profileRepo.FindByID(*achievement.OwnerID)
		if err != nil {
			e.logger.Warn().Err(err).Str("achievementID", achievement.ID.String()).Msg("owner lookup failed")
		}
		achievement.Owner = owner
	}

	if achievement.IsTeamAchievement {
		rows, err := e.achievementMemberRepo.FindByAchievementID(achievement.ID)
		if err != nil {
			e.logger.Warn().Err(err).Str("achievementID", achievement.ID.String()).Msg("member rows lookup failed")
			return
		}
		achievement.Members = e.resolveProfiles(rows2AchievementProfileIDs(rows))
	}
}

// resolveProfiles batch-fetches the profiles referenced by join rows.
// Unresolvable ids (profile deleted after the join row was written) are
// dropped silently.
func (e *Enricher) resolveProfiles(profileIDs []uuid.UUID) []models.Profile {
	if len(profileIDs) == 0 {
		return []models.Profile{}
	}
	profiles, err := e.profileRepo.FindByIDs(profileIDs)
	if err != nil {
		e.logger.Warn().Err(err).Msg("member profiles lookup failed")
		return []models.Profile{}
	}
	return profiles
}

func rows2ProjectProfileIDs(rows []*models.ProjectMember) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProfileID)
	}
	return ids
}

func rows2AchievementProfileIDs(rows []*models.AchievementMember) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProfileID)
	}
	return ids
}
