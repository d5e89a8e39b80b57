package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zeroday-squad/site-backend/database"
	"github.com/zeroday-squad/site-backend/errs"
	"github.com/zeroday-squad/site-backend/models"
	"github.com/zeroday-squad/site-backend/services"
)

type profileHandler struct {
	responder    Responder
	logger       zerolog.Logger
	profileRepo  *database.ProfileRepo
	userRoleRepo *database.UserRoleRepo
	cache        *services.TagCache
}

func newProfileHandler(profileRepo *database.ProfileRepo, userRoleRepo *database.UserRoleRepo, cache *services.TagCache) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		profileRepo:  profileRepo,
		userRoleRepo: userRoleRepo,
		cache:        cache,
	}
}

// ProfileCollection represents multiple profiles
type ProfileCollection struct {
	Profiles []*models.Profile `json:"profiles"`
	Total    int               `json:"total,omitempty"`
}

// getAllProfiles retrieves all member profiles
// @Summary Get all profiles
// @Description Retrieves all profiles, newest first
// @Tags Profiles
// @Accept json
// @Produce json
// @Success 200 {object} ProfileCollection "List of profiles"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching profiles"
// @Router /profiles [get]
func (h profileHandler) getAllProfiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload, ok := h.cache.Get(r.Context(), services.CacheTagProfiles); ok {
			writeCachedJSON(w, payload)
			return
		}

		profiles, err := h.profileRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profiles", err))
			return
		}

		response := ProfileCollection{
			Profiles: profiles,
			Total:    len(profiles),
		}

		payload, err := json.Marshal(response)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.cache.Set(r.Context(), services.CacheTagProfiles, payload)
		writeCachedJSON(w, payload)
	}
}

// getAllProfilesWithRoles joins each profile with its account's role in
// application code. Accounts missing a role row show up as "member".
// @Summary Get all profiles with roles
// @Tags Profiles
// @Accept json
// @Produce json
// @Success 200 {array} models.ProfileWithRole "Profiles with roles"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /profiles/with-roles [get]
func (h profileHandler) getAllProfilesWithRoles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := h.profileRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profiles", err))
			return
		}

		roles, err := h.userRoleRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user roles", err))
			return
		}

		roleByUser := make(map[uuid.UUID]string, len(roles))
		for _, role := range roles {
			roleByUser[role.UserID] = role.Role
		}

		withRoles := make([]models.ProfileWithRole, 0, len(profiles))
		for _, profile := range profiles {
			role, ok := roleByUser[profile.UserID]
			if !ok {
				role = models.RoleMember
			}
			withRoles = append(withRoles, models.ProfileWithRole{Profile: *profile, Role: role})
		}

		h.responder.WriteJSON(w, withRoles)
	}
}

// getProfile retrieves a specific profile by ID
// @Summary Get profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param profileID path string true "Profile ID" format(uuid)
// @Success 200 {object} models.Profile "Profile details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid profileID"
// @Failure 404 {object} ErrorResponse "Not Found - Profile not found"
// @Router /profile/{profileID} [get]
func (h profileHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, apiErr := parseIDParam(r, "profileID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		profile, err := h.profileRepo.FindByID(profileID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profile", err))
			return
		}
		if profile == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("profile not found"))
			return
		}

		h.responder.WriteJSON(w, profile)
	}
}

// updateProfile updates a profile. Allowed for the owning account or an
// admin; there is no profile delete, accounts take their profile with them.
// @Summary Update profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param profileID path string true "Profile ID" format(uuid)
// @Param profile body models.Profile true "Updated profile data"
// @Success 200 {object} models.Profile "Updated profile"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the profile owner or an admin"
// @Failure 404 {object} ErrorResponse "Not Found - Profile not found"
// @Router /profile/{profileID} [put]
func (h profileHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing session"))
			return
		}

		profileID, apiErr := parseIDParam(r, "profileID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		existing, err := h.profileRepo.FindByID(profileID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profile", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("profile not found"))
			return
		}

		if !session.IsAdmin() && existing.UserID != session.User.ID {
			h.responder.WriteError(w, errs.NewForbiddenError("only the profile owner or an admin may edit this profile"))
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		// Decode over the loaded row so omitted fields keep stored values.
		profile := *existing
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&profile); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode profile request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		// Identity fields are not editable.
		profile.ID = profileID
		profile.UserID = existing.UserID
		profile.CreatedAt = existing.CreatedAt

		if err := h.profileRepo.Update(&profile); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "profile", err))
			return
		}

		h.cache.Invalidate(r.Context(), services.CacheTagProfiles)

		h.responder.WriteJSON(w, &profile)
	}
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// setUserRole promotes or demotes an account. Admin only.
// @Summary Set user role
// @Tags Profiles
// @Accept json
// @Produce json
// @Param userID path string true "User ID" format(uuid)
// @Param request body setRoleRequest true "New role"
// @Success 200 {object} map[string]string "Success message"
// @Failure 400 {object} ErrorResponse "Bad Request - Unknown role"
// @Router /user-role/{userID} [put]
func (h profileHandler) setUserRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, apiErr := parseIDParam(r, "userID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var request setRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if !models.ValidRole(request.Role) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("role", "must be admin or member"))
			return
		}

		if err := h.userRoleRepo.SetRole(userID, request.Role); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "user role", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "role updated successfully",
		})
	}
}
