package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zeroday-squad/site-backend/database"
	"github.com/zeroday-squad/site-backend/errs"
	"github.com/zeroday-squad/site-backend/models"
	"github.com/zeroday-squad/site-backend/services"
)

type siteStatHandler struct {
	responder    Responder
	logger       zerolog.Logger
	siteStatRepo *database.SiteStatRepo
	cache        *services.TagCache
}

func newSiteStatHandler(siteStatRepo *database.SiteStatRepo, cache *services.TagCache) siteStatHandler {
	logger := log.With().Str("handlerName", "siteStatHandler").Logger()

	return siteStatHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		siteStatRepo: siteStatRepo,
		cache:        cache,
	}
}

// getAllSiteStats retrieves the homepage counters in display order.
func (h siteStatHandler) getAllSiteStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload, ok := h.cache.Get(r.Context(), services.CacheTagSiteStats); ok {
			writeCachedJSON(w, payload)
			return
		}

		stats, err := h.siteStatRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "site stats", err))
			return
		}

		payload, err := json.Marshal(stats)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.cache.Set(r.Context(), services.CacheTagSiteStats, payload)
		writeCachedJSON(w, payload)
	}
}

// createSiteStat adds a homepage counter. Admin only.
func (h siteStatHandler) createSiteStat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var stat models.SiteStat
		if err := json.NewDecoder(r.Body).Decode(&stat); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if stat.StatKey == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("stat_key"))
			return
		}
		if stat.StatLabel == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("stat_label"))
			return
		}

		if err := h.siteStatRepo.Add(&stat); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "site stat", err))
			return
		}

		h.cache.Invalidate(r.Context(), services.CacheTagSiteStats)

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, stat)
	}
}

// updateSiteStat updates a homepage counter. Admin only.
func (h siteStatHandler) updateSiteStat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		siteStatID, apiErr := parseIDParam(r, "siteStatID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		existing, err := h.siteStatRepo.FindByID(siteStatID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "site stat", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("site stat not found"))
			return
		}

		stat := *existing
		if err := json.NewDecoder(r.Body).Decode(&stat); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		stat.ID = siteStatID
		stat.CreatedAt = existing.CreatedAt

		if err := h.siteStatRepo.Update(&stat); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "site stat", err))
			return
		}

		h.cache.Invalidate(r.Context(), services.CacheTagSiteStats)

		h.responder.WriteJSON(w, &stat)
	}
}

// deleteSiteStat removes a homepage counter. Admin only.
func (h siteStatHandler) deleteSiteStat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		siteStatID, apiErr := parseIDParam(r, "siteStatID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		stat, err := h.siteStatRepo.FindByID(siteStatID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "site stat", err))
			return
		}
		if stat == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("site stat not found"))
			return
		}

		if err := h.siteStatRepo.Delete(siteStatID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "site stat", err))
			return
		}

		h.cache.Invalidate(r.Context(), services.CacheTagSiteStats)

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "site stat deleted successfully",
		})
	}
}
