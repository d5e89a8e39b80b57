package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/zeroday-squad/site-backend/database"
	"github.com/zeroday-squad/site-backend/models"
	"github.com/zeroday-squad/site-backend/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	for _, q := range []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash BLOB NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE user_roles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL DEFAULT 'member',
			created_at DATETIME
		);`,
		`CREATE TABLE profiles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			username TEXT,
			email TEXT,
			full_name TEXT,
			bio TEXT,
			skills TEXT,
			avatar_url TEXT,
			github_url TEXT,
			linkedin_url TEXT,
			twitter_url TEXT,
			website_url TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE projects (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			is_team_project BOOLEAN NOT NULL DEFAULT false,
			owner_id TEXT,
			github_url TEXT,
			demo_url TEXT,
			image_url TEXT,
			tags TEXT,
			language TEXT,
			stars INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE project_members (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			created_at DATETIME,
			UNIQUE (project_id, profile_id)
		);`,
		`CREATE TABLE achievements (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			achievement_type TEXT NOT NULL DEFAULT 'recognition',
			achievement_date DATETIME,
			icon TEXT,
			image_url TEXT,
			is_team_achievement BOOLEAN NOT NULL DEFAULT false,
			owner_id TEXT,
			is_highlighted BOOLEAN NOT NULL DEFAULT false,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE achievement_members (
			id TEXT PRIMARY KEY,
			achievement_id TEXT NOT NULL REFERENCES achievements(id) ON DELETE CASCADE,
			profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			created_at DATETIME,
			UNIQUE (achievement_id, profile_id)
		);`,
		`CREATE TABLE site_stats (
			id TEXT PRIMARY KEY,
			stat_key TEXT NOT NULL UNIQUE,
			stat_label TEXT NOT NULL,
			stat_value INTEGER NOT NULL DEFAULT 0,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		);`,
	} {
		require.NoError(t, db.Exec(q).Error)
	}
	return db
}

// seedAccount creates a user, its role row, and its profile, and returns a
// ready-to-use session for handler tests.
func seedAccount(t *testing.T, db *gorm.DB, username, role string) Session {
	t.Helper()
	user := models.User{ID: uuid.New(), Email: username + "@zeroday.example", PasswordHash: []byte("x")}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, db.Create(&models.UserRole{ID: uuid.New(), UserID: user.ID, Role: role}).Error)

	profile := models.Profile{ID: uuid.New(), UserID: user.ID, Username: &username}
	require.NoError(t, db.Create(&profile).Error)

	return Session{User: user, Role: role, Profile: &profile}
}

func newHandlerTestCache(t *testing.T) (*services.TagCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return services.NewTagCacheWithClient(client, time.Minute), mr
}

func newTestEnricher(db *gorm.DB) *services.Enricher {
	return services.NewEnricher(
		database.NewProfileRepo(db),
		database.NewProjectMemberRepo(db),
		database.NewAchievementMemberRepo(db),
	)
}

// serveAs runs a request through a router with the given session attached,
// the way the auth middleware would attach it.
func serveAs(router http.Handler, req *http.Request, session Session) *httptest.ResponseRecorder {
	req = req.WithContext(ctxWithSession(req.Context(), session))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}
