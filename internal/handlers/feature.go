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

type FeatureHandler struct {
	features *repository.FeatureRepo
	projects *repository.ProjectRepo
	cleanup  *repository.Cleanup
}

func NewFeatureHandler(features *repository.FeatureRepo, projects *repository.ProjectRepo, cleanup *repository.Cleanup) *FeatureHandler {
	return &FeatureHandler{
		features: features,
		projects: projects,
		cleanup:  cleanup,
	}
}

type CreateFeatureRequest struct {
	ProjectID      string     `json:"project_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Resource       string     `json:"resource"`
	Synced         *time.Time `json:"synced"`
	Payload        bson.M     `json:"payload"`
	RequirementIDs []string   `json:"requirement_ids"`
}

// --- POST /features ---

func (h *FeatureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var reqs []CreateFeatureRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	features := make([]*models.Feature, 0, len(reqs))
	for _, req := range reqs {
		projectID, err := bson.ObjectIDFromHex(req.ProjectID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
			return
		}

		// The store has no foreign keys: the project must exist before a
		// feature can reference it.
		project, err := h.projects.FindByID(r.Context(), projectID)
		if err != nil {
			log.Printf("Error finding project: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		if project == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "project not found"})
			return
		}

		requirements := make([]bson.ObjectID, 0, len(req.RequirementIDs))
		for _, reqID := range req.RequirementIDs {
			id, err := bson.ObjectIDFromHex(reqID)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid requirement ID"})
				return
			}
			requirements = append(requirements, id)
		}

		features = append(features, &models.Feature{
			ProjectID:      project.ID,
			Name:           req.Name,
			Description:    req.Description,
			Resource:       req.Resource,
			Synced:         req.Synced,
			Payload:        req.Payload,
			RequirementIDs: requirements,
		})
	}

	if err := h.features.CreateMany(r.Context(), features); err != nil {
		log.Printf("Error creating features: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create features"})
		return
	}
	writeJSON(w, http.StatusCreated, features)
}

// --- GET /features ---

func (h *FeatureHandler) List(w http.ResponseWriter, r *http.Request) {
	features, err := h.features.List(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		log.Printf("Error listing features: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, features)
}

// --- GET /features/count ---

func (h *FeatureHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.features.Count(r.Context())
	if err != nil {
		log.Printf("Error counting features: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, count)
}

// --- GET /features/{id} ---

func (h *FeatureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid feature ID"})
		return
	}

	feature, err := h.features.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("Error finding feature: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if feature == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "feature not found"})
		return
	}
	writeJSON(w, http.StatusOK, feature)
}

// --- DELETE /features/{id} ---

func (h *FeatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid feature ID"})
		return
	}

	feature, err := h.features.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("Error finding feature: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if feature == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "feature not found"})
		return
	}

	if err := h.cleanup.PurgeFeature(r.Context(), id); err != nil {
		log.Printf("Error purging feature dependents: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete feature"})
		return
	}
	if err := h.features.Delete(r.Context(), id); err != nil {
		log.Printf("Error deleting feature: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete feature"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "feature deleted"})
}

// --- GET /features/project/{id} ---

func (h *FeatureHandler) ByProject(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
		return
	}

	features, err := h.features.FindByProject(r.Context(), id)
	if err != nil {
		log.Printf("Error listing project features: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, features)
}
