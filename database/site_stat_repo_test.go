package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zeroday-squad/site-backend/models"
)

func TestSiteStatRepo_FindAllOrdersByDisplayOrder(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	repo := NewSiteStatRepo(db)

	require.NoError(t, repo.Add(&models.SiteStat{ID: uuid.New(), StatKey: "ctf_wins", StatLabel: "CTF Wins", StatValue: 12, DisplayOrder: 2}))
	require.NoError(t, repo.Add(&models.SiteStat{ID: uuid.New(), StatKey: "cves_found", StatLabel: "CVEs Found", StatValue: 7, DisplayOrder: 1}))
	require.NoError(t, repo.Add(&models.SiteStat{ID: uuid.New(), StatKey: "members", StatLabel: "Members", StatValue: 5, DisplayOrder: 3}))

	stats, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, stats, 3)
	require.Equal(t, "cves_found", stats[0].StatKey)
	require.Equal(t, "ctf_wins", stats[1].StatKey)
	require.Equal(t, "members", stats[2].StatKey)
}

func TestSiteStatRepo_StatKeyUnique(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	repo := NewSiteStatRepo(db)

	require.NoError(t, repo.Add(&models.SiteStat{ID: uuid.New(), StatKey: "ctf_wins", StatLabel: "CTF Wins"}))
	err := repo.Add(&models.SiteStat{ID: uuid.New(), StatKey: "ctf_wins", StatLabel: "Duplicate"})
	require.Error(t, err)
}

func TestSiteStatRepo_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	repo := NewSiteStatRepo(db)

	stat := models.SiteStat{ID: uuid.New(), StatKey: "ctf_wins", StatLabel: "CTF Wins", StatValue: 12}
	require.NoError(t, repo.Add(&stat))

	stat.StatValue = 13
	require.NoError(t, repo.Update(&stat))

	reloaded, err := repo.FindByID(stat.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	require.Equal(t, 13, reloaded.StatValue)

	require.NoError(t, repo.Delete(stat.ID))
	gone, err := repo.FindByID(stat.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}
