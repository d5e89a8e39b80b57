package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/zeroday-squad/site-backend/errs"
)

// parseIDParam extracts and parses a uuid path parameter.
func parseIDParam(r *http.Request, name string) (uuid.UUID, *errs.ApiErr) {
	idStr := chi.URLParam(r, name)
	if idStr == "" {
		return uuid.Nil, errs.NewBadRequestError(fmt.Sprintf("missing %s", name))
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// parseMemberIDs converts a raw membership set to uuids, preserving the
// supplied/omitted distinction: a nil input stays nil.
func parseMemberIDs(raw *[]string) (*[]uuid.UUID, *errs.ApiErr) {
	if raw == nil {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(*raw))
	for _, s := range *raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, errs.NewInvalidFieldError("memberIds", fmt.Sprintf("invalid profile id %q", s))
		}
		ids = append(ids, id)
	}
	return &ids, nil
}

// canMutateEntity implements the write rule shared by projects and
// achievements: admins may edit anything, everyone else only entities
// owned by their profile. Team entities have no owner, so they are
// admin-managed.
func canMutateEntity(session Session, ownerID *uuid.UUID) bool {
	if session.IsAdmin() {
		return true
	}
	if ownerID == nil || session.Profile == nil {
		return false
	}
	return *ownerID == session.Profile.ID
}

// writeCachedJSON writes a pre-marshaled JSON payload.
func writeCachedJSON(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(payload)
}
