package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zeroday-squad/site-backend/database"
	"github.com/zeroday-squad/site-backend/models"
	"github.com/zeroday-squad/site-backend/services"
	"gorm.io/gorm"
)

var deleteUserTestSecret = []byte("delete-user-test-secret")

func newDeleteUserTestRouter(db *gorm.DB) http.Handler {
	handler := newDeleteUserHandler(database.NewUserRepo(db), database.NewUserRoleRepo(db), nil, deleteUserTestSecret)
	mux := http.NewServeMux()
	mux.HandleFunc("/functions/delete-user", handler.deleteUser())
	return mux
}

func deleteUserRequestFor(t *testing.T, token, userID, callingUserID string) *http.Request {
	t.Helper()
	body, err := json.Marshal(map[string]string{"userId": userID, "callingUserId": callingUserID})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/functions/delete-user", bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func adminToken(t *testing.T, session Session) string {
	t.Helper()
	token, err := issueToken(deleteUserTestSecret, session.User.ID, time.Hour)
	require.NoError(t, err)
	return token
}

func decodeErrorField(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload["error"]
}

func TestDeleteUserPreflight(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newDeleteUserTestRouter(db)

	rec := serve(router, httptest.NewRequest(http.MethodOptions, "/functions/delete-user", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "authorization, x-client-info, apikey, content-type", rec.Header().Get("Access-Control-Allow-Headers"))
	require.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestDeleteUserMissingAuthHeader(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newDeleteUserTestRouter(db)

	rec := serve(router, deleteUserRequestFor(t, "", uuid.NewString(), uuid.NewString()))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "No authorization header", decodeErrorField(t, rec))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDeleteUserBadAuthHeaderFormat(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newDeleteUserTestRouter(db)

	req := deleteUserRequestFor(t, "", uuid.NewString(), uuid.NewString())
	req.Header.Set("Authorization", "Bearer")
	rec := serve(router, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid authorization header format", decodeErrorField(t, rec))
}

func TestDeleteUserMalformedBody(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newDeleteUserTestRouter(db)
	admin := seedAccount(t, db, "admin", models.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/functions/delete-user", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+adminToken(t, admin))
	rec := serve(router, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Malformed request body", decodeErrorField(t, rec))
}

func TestDeleteUserMissingIDs(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newDeleteUserTestRouter(db)
	admin := seedAccount(t, db, "admin", models.RoleAdmin)
	token := adminToken(t, admin)

	rec := serve(router, deleteUserRequestFor(t, token, "", admin.User.ID.String()))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "User ID is required", decodeErrorField(t, rec))

	rec = serve(router, deleteUserRequestFor(t, token, uuid.NewString(), ""))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Calling user ID is required", decodeErrorField(t, rec))
}

func TestDeleteUserSelfDeleteRejectedEvenForAdmin(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newDeleteUserTestRouter(db)
	admin := seedAccount(t, db, "admin", models.RoleAdmin)

	rec := serve(router, deleteUserRequestFor(t, adminToken(t, admin), admin.User.ID.String(), admin.User.ID.String()))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Cannot delete your own account", decodeErrorField(t, rec))
}

func TestDeleteUserInvalidTargetID(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newDeleteUserTestRouter(db)
	admin := seedAccount(t, db, "admin", models.RoleAdmin)

	rec := serve(router, deleteUserRequestFor(t, adminToken(t, admin), "not-a-uuid", admin.User.ID.String()))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid user ID", decodeErrorField(t, rec))
}

func TestDeleteUserInvalidToken(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newDeleteUserTestRouter(db)
	admin := seedAccount(t, db, "admin", models.RoleAdmin)

	badToken, err := issueToken([]byte("some-other-secret"), admin.User.ID, time.Hour)
	require.NoError(t, err)

	rec := serve(router, deleteUserRequestFor(t, badToken, uuid.NewString(), admin.User.ID.String()))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid token", decodeErrorField(t, rec))
}

func TestDeleteUserTokenSubjectMismatch(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newDeleteUserTestRouter(db)
	admin := seedAccount(t, db, "admin", models.RoleAdmin)
	other := seedAccount(t, db, "other", models.RoleAdmin)

	// Token is admin's but the body claims another account as the caller.
	rec := serve(router, deleteUserRequestFor(t, adminToken(t, admin), uuid.NewString(), other.User.ID.String()))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Token subject does not match calling user", decodeErrorField(t, rec))
}

func TestDeleteUserForbiddenForMember(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newDeleteUserTestRouter(db)
	member := seedAccount(t, db, "member", models.RoleMember)
	target := seedAccount(t, db, "target", models.RoleMember)

	rec := serve(router, deleteUserRequestFor(t, adminToken(t, member), target.User.ID.String(), member.User.ID.String()))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Unauthorized - Admin access required", decodeErrorField(t, rec))

	// The target is untouched.
	kept, err := database.NewUserRepo(db).FindByID(target.User.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
}

func TestDeleteUserSuccess(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newDeleteUserTestRouter(db)
	admin := seedAccount(t, db, "admin", models.RoleAdmin)
	target := seedAccount(t, db, "target", models.RoleMember)

	rec := serve(router, deleteUserRequestFor(t, adminToken(t, admin), target.User.ID.String(), admin.User.ID.String()))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, true, payload["success"])
	require.Equal(t, "User deleted successfully", payload["message"])

	gone, err := database.NewUserRepo(db).FindByID(target.User.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	goneProfile, err := database.NewProfileRepo(db).FindByUserID(target.User.ID)
	require.NoError(t, err)
	require.Nil(t, goneProfile)
}

func TestDeleteUserInvalidatesEntityCaches(t *testing.T) {
	db := newHandlerTestDB(t)
	cache, mr := newHandlerTestCache(t)
	handler := newDeleteUserHandler(database.NewUserRepo(db), database.NewUserRoleRepo(db), cache, deleteUserTestSecret)
	mux := http.NewServeMux()
	mux.HandleFunc("/functions/delete-user", handler.deleteUser())

	admin := seedAccount(t, db, "admin", models.RoleAdmin)
	target := seedAccount(t, db, "target", models.RoleMember)

	// The cascade pulls the target's profile out of member sets, so the
	// cached project and achievement collections go stale alongside
	// profiles.
	ctx := context.Background()
	cache.Set(ctx, services.CacheTagProfiles, []byte(`profiles`))
	cache.Set(ctx, services.CacheTagProjects, []byte(`projects`))
	cache.Set(ctx, services.CacheTagAchievements, []byte(`achievements`))
	cache.Set(ctx, services.CacheTagSiteStats, []byte(`stats`))

	rec := serve(mux, deleteUserRequestFor(t, adminToken(t, admin), target.User.ID.String(), admin.User.ID.String()))
	require.Equal(t, http.StatusOK, rec.Code)

	require.False(t, mr.Exists("cache:"+services.CacheTagProfiles))
	require.False(t, mr.Exists("cache:"+services.CacheTagProjects))
	require.False(t, mr.Exists("cache:"+services.CacheTagAchievements))
	require.True(t, mr.Exists("cache:"+services.CacheTagSiteStats))
}

func TestDeleteUserDatabaseFailure(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newDeleteUserTestRouter(db)
	admin := seedAccount(t, db, "admin", models.RoleAdmin)
	target := seedAccount(t, db, "target", models.RoleMember)
	token := adminToken(t, admin)

	require.NoError(t, db.Exec(`CREATE TRIGGER block_user_delete BEFORE DELETE ON users
		BEGIN SELECT RAISE(ABORT, 'delete blocked'); END;`).Error)

	rec := serve(router, deleteUserRequestFor(t, token, target.User.ID.String(), admin.User.ID.String()))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotEmpty(t, decodeErrorField(t, rec))
}
