package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zeroday-squad/site-backend/database"
	"github.com/zeroday-squad/site-backend/errs"
	"github.com/zeroday-squad/site-backend/models"
	"golang.org/x/crypto/bcrypt"
)

type authHandler struct {
	responder    Responder
	logger       zerolog.Logger
	userRepo     *database.UserRepo
	userRoleRepo *database.UserRoleRepo
	profileRepo  *database.ProfileRepo
	jwtSecret    []byte
	tokenExpiry  time.Duration
}

func newAuthHandler(userRepo *database.UserRepo, userRoleRepo *database.UserRoleRepo, profileRepo *database.ProfileRepo, jwtSecret []byte, tokenExpiry time.Duration) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		userRepo:     userRepo,
		userRoleRepo: userRoleRepo,
		profileRepo:  profileRepo,
		jwtSecret:    jwtSecret,
		tokenExpiry:  tokenExpiry,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token   string          `json:"token"`
	User    models.User     `json:"user"`
	Role    string          `json:"role"`
	Profile *models.Profile `json:"profile"`
}

// signup registers an account. The profile and the default "member" role
// row are created alongside the user; every account has exactly one of each.
// @Summary Sign up
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} sessionResponse "Session for the new account"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid credentials payload"
// @Failure 409 {object} ErrorResponse "Conflict - Email already registered"
// @Router /auth/signup [post]
func (h authHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		creds.Email = strings.TrimSpace(strings.ToLower(creds.Email))
		if creds.Email == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("email"))
			return
		}
		if len(creds.Password) < 6 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("password", "must be at least 6 characters"))
			return
		}

		existing, err := h.userRepo.FindByEmail(creds.Email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if existing != nil {
			h.responder.WriteError(w, errs.NewAlreadyExists("user"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user := models.User{Email: creds.Email, PasswordHash: hash}

		// Default the username to the email local part, like the hosted
		// auth provider this replaces did.
		username := creds.Email
		if at := strings.Index(creds.Email, "@"); at > 0 {
			username = creds.Email[:at]
		}
		profile := models.Profile{Username: &username, Email: &creds.Email}
		role := models.UserRole{Role: models.RoleMember}

		if err := h.userRepo.Register(&user, &profile, &role); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "user", err))
			return
		}

		token, err := issueToken(h.jwtSecret, user.ID, h.tokenExpiry)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, sessionResponse{
			Token:   token,
			User:    user,
			Role:    role.Role,
			Profile: &profile,
		})
	}
}

// login verifies credentials and issues a session token.
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} sessionResponse "Session"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		creds.Email = strings.TrimSpace(strings.ToLower(creds.Email))

		user, err := h.userRepo.FindByEmail(creds.Email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid credentials"))
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid credentials"))
			return
		}

		token, err := issueToken(h.jwtSecret, user.ID, h.tokenExpiry)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		role := models.RoleMember
		if roleRow, err := h.userRoleRepo.FindByUserID(user.ID); err == nil && roleRow != nil {
			role = roleRow.Role
		}
		profile, _ := h.profileRepo.FindByUserID(user.ID)

		h.responder.WriteJSON(w, sessionResponse{
			Token:   token,
			User:    *user,
			Role:    role,
			Profile: profile,
		})
	}
}

// me returns the caller's session: account, role, profile. The frontend
// uses this on load to restore its session and pick the dashboard to show.
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing session"))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"user":    session.User,
			"role":    session.Role,
			"profile": session.Profile,
		})
	}
}
