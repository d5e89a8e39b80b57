package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zeroday-squad/site-backend/database"
	"github.com/zeroday-squad/site-backend/errs"
	"github.com/zeroday-squad/site-backend/models"
	"github.com/zeroday-squad/site-backend/services"
)

type achievementHandler struct {
	responder             Responder
	logger                zerolog.Logger
	achievementRepo       *database.AchievementRepo
	achievementMemberRepo *database.AchievementMemberRepo
	enricher              *services.Enricher
	cache                 *services.TagCache
}

func newAchievementHandler(achievementRepo *database.AchievementRepo, achievementMemberRepo *database.AchievementMemberRepo, enricher *services.Enricher, cache *services.TagCache) achievementHandler {
	logger := log.With().Str("handlerName", "achievementHandler").Logger()

	return achievementHandler{
		responder:             NewResponder(logger),
		logger:                logger,
		achievementRepo:       achievementRepo,
		achievementMemberRepo: achievementMemberRepo,
		enricher:              enricher,
		cache:                 cache,
	}
}

// AchievementRequest is the write payload, same membership semantics as
// ProjectRequest.
type AchievementRequest struct {
	Achievement models.Achievement `json:"achievement"`
	MemberIDs   *[]string          `json:"memberIds"`
}

// AchievementCollection represents multiple achievements with resolved relations
type AchievementCollection struct {
	Achievements []*models.Achievement `json:"achievements"`
	Total        int                   `json:"total,omitempty"`
}

// getAllAchievements retrieves all achievements with resolved relations
// @Summary Get all achievements
// @Description Retrieves all achievements, newest first, with owner and member profiles resolved
// @Tags Achievements
// @Accept json
// @Produce json
// @Success 200 {object} AchievementCollection "List of achievements"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching achievements"
// @Router /achievements [get]
func (h achievementHandler) getAllAchievements() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload, ok := h.cache.Get(r.Context(), services.CacheTagAchievements); ok {
			writeCachedJSON(w, payload)
			return
		}

		achievements, err := h.achievementRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "achievements", err))
			return
		}

		h.enricher.EnrichAchievements(r.Context(), achievements)

		response := AchievementCollection{
			Achievements: achievements,
			Total:        len(achievements),
		}

		payload, err := json.Marshal(response)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.cache.Set(r.Context(), services.CacheTagAchievements, payload)
		writeCachedJSON(w, payload)
	}
}

// getAchievement retrieves a specific achievement by ID
// @Summary Get achievement
// @Tags Achievements
// @Accept json
// @Produce json
// @Param achievementID path string true "Achievement ID" format(uuid)
// @Success 200 {object} models.Achievement "Achievement details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid achievementID"
// @Failure 404 {object} ErrorResponse "Not Found - Achievement not found"
// @Router /achievement/{achievementID} [get]
func (h achievementHandler) getAchievement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		achievementID, apiErr := parseIDParam(r, "achievementID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		achievement, err := h.achievementRepo.FindByID(achievementID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "achievement", err))
			return
		}
		if achievement == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("achievement not found"))
			return
		}

		h.enricher.EnrichAchievement(r.Context(), achievement)

		h.responder.WriteJSON(w, achievement)
	}
}

// createAchievement creates a new achievement
// @Summary Create achievement
// @Tags Achievements
// @Accept json
// @Produce json
// @Param request body AchievementRequest true "Achievement data with optional membership set"
// @Success 201 {object} models.Achievement "Created achievement"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid achievement data"
// @Router /achievement [post]
func (h achievementHandler) createAchievement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing session"))
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var request AchievementRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&request); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode achievement request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		achievement := request.Achievement
		if achievement.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		if achievement.AchievementType == "" {
			achievement.AchievementType = models.AchievementTypeRecognition
		}
		if !models.ValidAchievementType(achievement.AchievementType) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("achievement_type", "unknown category"))
			return
		}

		memberIDs, apiErr := parseMemberIDs(request.MemberIDs)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if achievement.IsTeamAchievement {
			achievement.OwnerID = nil
		} else if achievement.OwnerID == nil && session.Profile != nil {
			achievement.OwnerID = &session.Profile.ID
		}

		if err := h.achievementRepo.Add(&achievement); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "achievement", err))
			return
		}

		if memberIDs != nil && len(*memberIDs) > 0 {
			if err := h.achievementMemberRepo.AddForAchievement(achievement.ID, *memberIDs); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("create", "achievement members", err))
				return
			}
		}

		h.cache.Invalidate(r.Context(), services.CacheTagAchievements)

		h.enricher.EnrichAchievement(r.Context(), &achievement)

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, achievement)
	}
}

// updateAchievement updates an existing achievement
// @Summary Update achievement
// @Description Updates an achievement; a supplied membership set fully replaces the existing one
// @Tags Achievements
// @Accept json
// @Produce json
// @Param achievementID path string true "Achievement ID" format(uuid)
// @Param request body AchievementRequest true "Updated achievement data"
// @Success 200 {object} models.Achievement "Updated achievement"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the owner or an admin"
// @Failure 404 {object} ErrorResponse "Not Found - Achievement not found"
// @Router /achievement/{achievementID} [put]
func (h achievementHandler) updateAchievement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing session"))
			return
		}

		achievementID, apiErr := parseIDParam(r, "achievementID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		existing, err := h.achievementRepo.FindByID(achievementID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "achievement", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("achievement not found"))
			return
		}

		if !canMutateEntity(session, existing.OwnerID) {
			h.responder.WriteError(w, errs.NewForbiddenError("only the owner or an admin may edit this achievement"))
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		// Decode over the loaded row so omitted fields keep stored values.
		request := AchievementRequest{Achievement: *existing}
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&request); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode achievement request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		achievement := request.Achievement
		achievement.ID = achievementID
		achievement.CreatedAt = existing.CreatedAt

		if achievement.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		if !models.ValidAchievementType(achievement.AchievementType) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("achievement_type", "unknown category"))
			return
		}

		memberIDs, apiErr := parseMemberIDs(request.MemberIDs)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.achievementRepo.Update(&achievement); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "achievement", err))
			return
		}

		if memberIDs != nil {
			if err := h.achievementMemberRepo.ReplaceForAchievement(achievementID, *memberIDs); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("update", "achievement members", err))
				return
			}
		}

		h.cache.Invalidate(r.Context(), services.CacheTagAchievements)

		h.enricher.EnrichAchievement(r.Context(), &achievement)

		h.responder.WriteJSON(w, &achievement)
	}
}

// deleteAchievement deletes an achievement by ID
// @Summary Delete achievement
// @Tags Achievements
// @Accept json
// @Produce json
// @Param achievementID path string true "Achievement ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the owner or an admin"
// @Failure 404 {object} ErrorResponse "Not Found - Achievement not found"
// @Router /achievement/{achievementID} [delete]
func (h achievementHandler) deleteAchievement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing session"))
			return
		}

		achievementID, apiErr := parseIDParam(r, "achievementID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		achievement, err := h.achievementRepo.FindByID(achievementID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "achievement", err))
			return
		}
		if achievement == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("achievement not found"))
			return
		}

		if !canMutateEntity(session, achievement.OwnerID) {
			h.responder.WriteError(w, errs.NewForbiddenError("only the owner or an admin may delete this achievement"))
			return
		}

		if err := h.achievementRepo.Delete(achievementID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "achievement", err))
			return
		}

		h.cache.Invalidate(r.Context(), services.CacheTagAchievements)

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "achievement deleted successfully",
		})
	}
}
