package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/zeroday-squad/site-backend/database"
	"github.com/zeroday-squad/site-backend/models"
	"github.com/zeroday-squad/site-backend/services"
	"gorm.io/gorm"
)

func newSiteStatTestRouter(db *gorm.DB, cache *services.TagCache) chi.Router {
	handler := newSiteStatHandler(database.NewSiteStatRepo(db), cache)

	r := chi.NewRouter()
	r.Get("/site-stats", handler.getAllSiteStats())
	r.Post("/site-stat", handler.createSiteStat())
	r.Put("/site-stat/{siteStatID}", handler.updateSiteStat())
	r.Delete("/site-stat/{siteStatID}", handler.deleteSiteStat())
	return r
}

func siteStatBody(t *testing.T, stat models.SiteStat) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(stat)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestSiteStatLifecycle(t *testing.T) {
	db := newHandlerTestDB(t)
	cache, mr := newHandlerTestCache(t)
	router := newSiteStatTestRouter(db, cache)

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/site-stat",
		siteStatBody(t, models.SiteStat{StatKey: "ctf_wins", StatLabel: "CTF Wins", StatValue: 12, DisplayOrder: 2})))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.SiteStat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = serve(router, httptest.NewRequest(http.MethodPost, "/site-stat",
		siteStatBody(t, models.SiteStat{StatKey: "cves_found", StatLabel: "CVEs Found", StatValue: 7, DisplayOrder: 1})))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Listed in display order and cached.
	rec = serve(router, httptest.NewRequest(http.MethodGet, "/site-stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, mr.Exists("cache:"+services.CacheTagSiteStats))

	var listing []models.SiteStat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing, 2)
	require.Equal(t, "cves_found", listing[0].StatKey)

	// A value bump invalidates the cached listing.
	created.StatValue = 13
	rec = serve(router, httptest.NewRequest(http.MethodPut, "/site-stat/"+created.ID.String(), siteStatBody(t, created)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, mr.Exists("cache:"+services.CacheTagSiteStats))

	rec = serve(router, httptest.NewRequest(http.MethodDelete, "/site-stat/"+created.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	stats, err := database.NewSiteStatRepo(db).FindAll()
	require.NoError(t, err)
	require.Len(t, stats, 1)
}

func TestSiteStatValidation(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newSiteStatTestRouter(db, nil)

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/site-stat",
		siteStatBody(t, models.SiteStat{StatLabel: "No Key"})))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodPost, "/site-stat",
		siteStatBody(t, models.SiteStat{StatKey: "no_label"})))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Duplicate keys surface as a conflict.
	rec = serve(router, httptest.NewRequest(http.MethodPost, "/site-stat",
		siteStatBody(t, models.SiteStat{StatKey: "members", StatLabel: "Members"})))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = serve(router, httptest.NewRequest(http.MethodPost, "/site-stat",
		siteStatBody(t, models.SiteStat{StatKey: "members", StatLabel: "Members Again"})))
	require.Equal(t, http.StatusConflict, rec.Code)
}
