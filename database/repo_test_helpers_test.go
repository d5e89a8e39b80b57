package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zeroday-squad/site-backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON;").Error, "enable foreign keys")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash BLOB NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createUserRoleTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE user_roles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		role TEXT NOT NULL DEFAULT 'member',
		created_at DATETIME
	);`)
}

func createProfileTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE profiles (
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
	);`)
}

func createProjectTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE projects (
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
	);`)
}

func createProjectMemberTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE project_members (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		created_at DATETIME,
		UNIQUE (project_id, profile_id)
	);`)
}

func createAchievementTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE achievements (
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
	);`)
}

func createAchievementMemberTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE achievement_members (
		id TEXT PRIMARY KEY,
		achievement_id TEXT NOT NULL REFERENCES achievements(id) ON DELETE CASCADE,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		created_at DATETIME,
		UNIQUE (achievement_id, profile_id)
	);`)
}

func createSiteStatTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE site_stats (
		id TEXT PRIMARY KEY,
		stat_key TEXT NOT NULL UNIQUE,
		stat_label TEXT NOT NULL,
		stat_value INTEGER NOT NULL DEFAULT 0,
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createAllTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	createUserTable(t, db)
	createUserRoleTable(t, db)
	createProfileTable(t, db)
	createProjectTable(t, db)
	createProjectMemberTable(t, db)
	createAchievementTable(t, db)
	createAchievementMemberTable(t, db)
	createSiteStatTable(t, db)
}

// seedProfile creates a user plus its profile and returns the profile.
func seedProfile(t *testing.T, db *gorm.DB, username string) models.Profile {
	t.Helper()
	user := models.User{
		ID:           uuid.New(),
		Email:        username + "@zeroday.example",
		PasswordHash: []byte("x"),
	}
	require.NoError(t, db.Create(&user).Error, "seed user")

	profile := models.Profile{
		ID:       uuid.New(),
		UserID:   user.ID,
		Username: &username,
	}
	require.NoError(t, db.Create(&profile).Error, "seed profile")
	return profile
}
