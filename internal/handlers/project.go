package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ottm-backend/internal/models"
	"ottm-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ProjectHandler struct {
	projects *repository.ProjectRepo
	cleanup  *repository.Cleanup
}

func NewProjectHandler(projects *repository.ProjectRepo, cleanup *repository.Cleanup) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		cleanup:  cleanup,
	}
}

type ProjectPatchRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Config      bson.M     `json:"config"`
	Synced      *time.Time `json:"synced"`
	IsActive    *bool      `json:"is_active"`
	Payload     bson.M     `json:"payload"`
}

// --- POST /projects ---

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var projects []*models.Project
	if err := json.NewDecoder(r.Body).Decode(&projects); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.projects.CreateMany(r.Context(), projects); err != nil {
		log.Printf("Error creating projects: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create projects"})
		return
	}
	writeJSON(w, http.StatusCreated, projects)
}

// --- PATCH /projects/{id} ---

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
		return
	}

	var req ProjectPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	existing, err := h.projects.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("Error finding project: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "project not found"})
		return
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Config != nil {
		fields["config"] = req.Config
	}
	if req.Synced != nil {
		fields["synced"] = *req.Synced
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.Payload != nil {
		fields["payload"] = req.Payload
	}

	project, err := h.projects.Patch(r.Context(), id, fields)
	if err != nil {
		log.Printf("Error updating project: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update project"})
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// --- GET /projects ---

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		projects []models.Project
		err      error
	)
	query := r.URL.Query()
	switch {
	case query.Get("fulltext") != "":
		projects, err = h.projects.SearchFullText(r.Context(), query.Get("fulltext"))
	case query.Get("name") != "":
		projects, err = h.projects.SearchByName(r.Context(), query.Get("name"))
	default:
		projects, err = h.projects.List(r.Context())
	}
	if err != nil {
		log.Printf("Error listing projects: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// --- GET /projects/count ---

func (h *ProjectHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.projects.Count(r.Context())
	if err != nil {
		log.Printf("Error counting projects: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, count)
}

// --- GET /projects/{id} ---

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
		return
	}

	project, err := h.projects.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("Error finding project: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if project == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "project not found"})
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// --- DELETE /projects/{id} ---

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
		return
	}

	project, err := h.projects.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("Error finding project: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if project == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "project not found"})
		return
	}

	// Cascade first, then the project document itself
	if err := h.cleanup.PurgeProject(r.Context(), id); err != nil {
		log.Printf("Error purging project dependents: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete project"})
		return
	}
	if err := h.projects.Delete(r.Context(), id); err != nil {
		log.Printf("Error deleting project: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete project"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}
