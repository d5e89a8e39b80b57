package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zeroday-squad/site-backend/database"
	"github.com/zeroday-squad/site-backend/errs"
	"github.com/zeroday-squad/site-backend/models"
	"github.com/zeroday-squad/site-backend/services"
)

type projectHandler struct {
	responder         Responder
	logger            zerolog.Logger
	projectRepo       *database.ProjectRepo
	projectMemberRepo *database.ProjectMemberRepo
	enricher          *services.Enricher
	cache             *services.TagCache
}

func newProjectHandler(projectRepo *database.ProjectRepo, projectMemberRepo *database.ProjectMemberRepo, enricher *services.Enricher, cache *services.TagCache) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:         NewResponder(logger),
		logger:            logger,
		projectRepo:       projectRepo,
		projectMemberRepo: projectMemberRepo,
		enricher:          enricher,
		cache:             cache,
	}
}

// ProjectRequest is the write payload: the entity plus an optional
// membership set. A nil MemberIDs leaves existing memberships untouched;
// a non-nil set (even empty) fully replaces them.
type ProjectRequest struct {
	Project   models.Project `json:"project"`
	MemberIDs *[]string      `json:"memberIds"`
}

// ProjectCollection represents multiple projects with resolved relations
type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total,omitempty"`
}

// getAllProjects retrieves all projects with resolved owners and members
// @Summary Get all projects
// @Description Retrieves all projects, newest first, with owner and member profiles resolved
// @Tags Projects
// @Accept json
// @Produce json
// @Success 200 {object} ProjectCollection "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload, ok := h.cache.Get(r.Context(), services.CacheTagProjects); ok {
			writeCachedJSON(w, payload)
			return
		}

		projects, err := h.projectRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.enricher.EnrichProjects(r.Context(), projects)

		response := ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		}

		payload, err := json.Marshal(response)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.cache.Set(r.Context(), services.CacheTagProjects, payload)
		writeCachedJSON(w, payload)
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Description Retrieves a project by ID with owner and member profiles resolved
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching project"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, apiErr := parseIDParam(r, "projectID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.enricher.EnrichProject(r.Context(), project)

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a new project; solo projects are owned by the caller's profile
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body ProjectRequest true "Project data with optional membership set"
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating project"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing session"))
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var request ProjectRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&request); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		project := request.Project
		if project.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		if project.Status == "" {
			project.Status = models.ProjectStatusActive
		}
		if !models.ValidProjectStatus(project.Status) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "unknown lifecycle status"))
			return
		}

		memberIDs, apiErr := parseMemberIDs(request.MemberIDs)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		// Solo projects belong to their creator; team projects carry a
		// membership set instead of an owner.
		if project.IsTeamProject {
			project.OwnerID = nil
		} else if project.OwnerID == nil && session.Profile != nil {
			project.OwnerID = &session.Profile.ID
		}

		if err := h.projectRepo.Add(&project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		// No compensating rollback here: a failed join-row insert leaves
		// the project row behind and surfaces the error to the caller.
		if memberIDs != nil && len(*memberIDs) > 0 {
			if err := h.projectMemberRepo.AddForProject(project.ID, *memberIDs); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("create", "project members", err))
				return
			}
		}

		h.cache.Invalidate(r.Context(), services.CacheTagProjects)

		h.enricher.EnrichProject(r.Context(), &project)

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, project)
	}
}

// updateProject updates an existing project
// @Summary Update project
// @Description Updates a project; a supplied membership set fully replaces the existing one
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param request body ProjectRequest true "Updated project data"
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the owner or an admin"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating project"
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing session"))
			return
		}

		projectID, apiErr := parseIDParam(r, "projectID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		existingProject, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if existingProject == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		if !canMutateEntity(session, existingProject.OwnerID) {
			h.responder.WriteError(w, errs.NewForbiddenError("only the owner or an admin may edit this project"))
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		// Decode the updates over the loaded row so omitted fields keep
		// their stored values.
		request := ProjectRequest{Project: *existingProject}
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&request); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		project := request.Project
		project.ID = projectID
		project.CreatedAt = existingProject.CreatedAt

		if project.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		if !models.ValidProjectStatus(project.Status) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "unknown lifecycle status"))
			return
		}

		memberIDs, apiErr := parseMemberIDs(request.MemberIDs)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.projectRepo.Update(&project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		// Reconciliation runs whenever a set was supplied, team flag or
		// not: delete-all then insert-new, never a diff.
		if memberIDs != nil {
			if err := h.projectMemberRepo.ReplaceForProject(projectID, *memberIDs); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("update", "project members", err))
				return
			}
		}

		h.cache.Invalidate(r.Context(), services.CacheTagProjects)

		h.enricher.EnrichProject(r.Context(), &project)

		h.responder.WriteJSON(w, &project)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Description Deletes a project; membership join rows cascade
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the owner or an admin"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error deleting project"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing session"))
			return
		}

		projectID, apiErr := parseIDParam(r, "projectID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		if !canMutateEntity(session, project.OwnerID) {
			h.responder.WriteError(w, errs.NewForbiddenError("only the owner or an admin may delete this project"))
			return
		}

		if err := h.projectRepo.Delete(projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.cache.Invalidate(r.Context(), services.CacheTagProjects)

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}
