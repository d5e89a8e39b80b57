package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zeroday-squad/site-backend/database"
	"github.com/zeroday-squad/site-backend/models"
	"github.com/zeroday-squad/site-backend/services"
)

// deleteUserHandler serves /functions/delete-user, the privileged account
// deletion endpoint. It keeps the wire contract of the hosted function it
// replaces: permissive CORS, JSON bodies, and the same status codes.
//
// Unlike that function, the actor's identity is derived from the verified
// bearer token subject, never trusted from the request body: callingUserId
// must match the token subject or the request is rejected.
type deleteUserHandler struct {
	logger       zerolog.Logger
	userRepo     *database.UserRepo
	userRoleRepo *database.UserRoleRepo
	cache        *services.TagCache
	jwtSecret    []byte
}

func newDeleteUserHandler(userRepo *database.UserRepo, userRoleRepo *database.UserRoleRepo, cache *services.TagCache, jwtSecret []byte) deleteUserHandler {
	logger := log.With().Str("handlerName", "deleteUserHandler").Logger()

	return deleteUserHandler{
		logger:       logger,
		userRepo:     userRepo,
		userRoleRepo: userRoleRepo,
		cache:        cache,
		jwtSecret:    jwtSecret,
	}
}

type deleteUserRequest struct {
	UserID        string `json:"userId"`
	CallingUserID string `json:"callingUserId"`
}

func setDeleteUserCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

func (h deleteUserHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	setDeleteUserCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("error writing response")
	}
}

func (h deleteUserHandler) deleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// CORS preflight: 200, no body.
		if r.Method == http.MethodOptions {
			setDeleteUserCORSHeaders(w)
			w.WriteHeader(http.StatusOK)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "No authorization header"})
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") || tokenParts[1] == "" {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid authorization header format"})
			return
		}

		var request deleteUserRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Malformed request body"})
			return
		}

		if request.UserID == "" {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "User ID is required"})
			return
		}
		if request.CallingUserID == "" {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Calling user ID is required"})
			return
		}

		// The self-delete guard applies regardless of role.
		if request.UserID == request.CallingUserID {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cannot delete your own account"})
			return
		}

		targetID, err := uuid.Parse(request.UserID)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
			return
		}

		// Actor identity comes from the verified token, and the claimed
		// callingUserId has to agree with it.
		actorID, err := parseTokenSubject(h.jwtSecret, tokenParts[1])
		if err != nil {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			return
		}
		if actorID.String() != request.CallingUserID {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token subject does not match calling user"})
			return
		}

		role, err := h.userRoleRepo.FindByUserID(actorID)
		if err != nil || role == nil || role.Role != models.RoleAdmin {
			h.logger.Warn().Str("actorID", actorID.String()).Msg("delete-user denied: caller is not admin")
			h.writeJSON(w, http.StatusForbidden, map[string]string{"error": "Unauthorized - Admin access required"})
			return
		}

		if err := h.userRepo.Delete(targetID); err != nil {
			h.logger.Error().Err(err).Str("targetID", targetID.String()).Msg("delete-user failed")
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		// The cascade removes the profile from project and achievement
		// member sets too, so their cached collections are also stale.
		h.cache.Invalidate(r.Context(), services.CacheTagProfiles)
		h.cache.Invalidate(r.Context(), services.CacheTagProjects)
		h.cache.Invalidate(r.Context(), services.CacheTagAchievements)

		h.logger.Info().Str("targetID", targetID.String()).Str("actorID", actorID.String()).Msg("user deleted")
		h.writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "User deleted successfully",
		})
	}
}
