package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"ottm-backend/internal/models"
	"ottm-backend/internal/notify"
	"ottm-backend/internal/survey"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type SurveyHandler struct {
	svc      *survey.Service
	notifier notify.Notifier
}

func NewSurveyHandler(svc *survey.Service, notifier notify.Notifier) *SurveyHandler {
	return &SurveyHandler{
		svc:      svc,
		notifier: notifier,
	}
}

// --- Request / Response types ---

type FeatureRuleRequest struct {
	URL                 string `json:"url"`
	Ratio               int    `json:"ratio"`
	DelayBeforeReanswer int    `json:"delay_before_new_proposition"`
}

type CreateSurveyRequest struct {
	ProjectID     string               `json:"project_id"`
	FeatureRules  []FeatureRuleRequest `json:"feature_rules"`
	IsActivated   bool                 `json:"is_activated"`
	DelayToAnswer int                  `json:"delay_to_answer"`
}

type SurveyRuleResponse struct {
	IsActivated          bool `json:"is_activated"`
	IsActivatedOnFeature bool `json:"is_activated_on_feature"`
	DelayBeforeReanswer  int  `json:"delay_before_reanswer"`
	DelayToAnswer        int  `json:"delay_to_answer"`
	RatioDisplay         int  `json:"ratio_display"`
}

type SubmitCommentRequest struct {
	FeatureURL  string `json:"feature_url"`
	UserID      string `json:"user_id"`
	Date        string `json:"date"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

type CommentResponse struct {
	FeatureURL  string    `json:"feature_url"`
	UserID      string    `json:"user_id"`
	Date        time.Time `json:"date"`
	Rating      int       `json:"rating"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
}

func ruleResponse(rule models.SurveyRule) SurveyRuleResponse {
	return SurveyRuleResponse{
		IsActivated:          rule.IsActivated,
		IsActivatedOnFeature: rule.IsActivated,
		DelayBeforeReanswer:  rule.DelayBeforeReanswer,
		DelayToAnswer:        rule.DelayToAnswer,
		RatioDisplay:         rule.Ratio,
	}
}

func commentResponse(result survey.CommentResult) CommentResponse {
	return CommentResponse{
		FeatureURL:  result.FeatureURL,
		UserID:      result.Comment.UserID,
		Date:        result.Comment.Date,
		Rating:      result.Comment.Rating,
		Description: result.Comment.Description,
		Language:    result.Comment.Language,
	}
}

// --- POST /survey ---

func (h *SurveyHandler) CreateRules(w http.ResponseWriter, r *http.Request) {
	var req CreateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	projectID, err := bson.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
		return
	}

	in := survey.CreateSurveyInput{
		ProjectID:     projectID,
		IsActivated:   req.IsActivated,
		DelayToAnswer: req.DelayToAnswer,
	}
	for _, rule := range req.FeatureRules {
		in.FeatureRules = append(in.FeatureRules, survey.FeatureRuleSpec{
			URL:                 rule.URL,
			Ratio:               rule.Ratio,
			DelayBeforeReanswer: rule.DelayBeforeReanswer,
		})
	}

	rules, err := h.svc.CreateSurveyRules(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}

	out := make([]SurveyRuleResponse, len(rules))
	for i, rule := range rules {
		out[i] = ruleResponse(rule)
	}
	writeJSON(w, http.StatusCreated, out)
}

// --- GET /survey/rules ---

func (h *SurveyHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	featureURL := r.URL.Query().Get("feature_url")
	if featureURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "feature_url is required"})
		return
	}

	rule, err := h.svc.GetRuleForFeature(r.Context(), featureURL)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ruleResponse(*rule))
}

// --- POST /survey/comments ---

func (h *SurveyHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req SubmitCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.FeatureURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "feature_url is required"})
		return
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date"})
		return
	}

	result, err := h.svc.AddComment(r.Context(), survey.CommentInput{
		FeatureURL:  req.FeatureURL,
		UserID:      req.UserID,
		Date:        date,
		Rating:      req.Rating,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	// Fire the notification in a background goroutine (non-blocking)
	go func() {
		message := formatCommentMessage(result)
		if err := h.notifier.Publish(context.Background(), "New survey comment", message); err != nil {
			log.Printf("Error publishing notification: %v", err)
		}
	}()

	writeJSON(w, http.StatusCreated, commentResponse(*result))
}

// --- GET /survey/projects/{project_id}/comments ---

func (h *SurveyHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	projectID, err := bson.ObjectIDFromHex(chi.URLParam(r, "project_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
		return
	}

	filter := survey.CommentFilter{ProjectID: &projectID}

	query := r.URL.Query()
	if v := query.Get("language"); v != "" {
		filter.Language = &v
	}
	if v := query.Get("feature_url"); v != "" {
		filter.FeatureURL = &v
	}
	if v := query.Get("starting_date"); v != "" {
		date, err := parseDate(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid starting_date"})
			return
		}
		filter.StartingDate = &date
	}
	if v := query.Get("ending_date"); v != "" {
		date, err := parseDate(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ending_date"})
			return
		}
		filter.EndingDate = &date
	}

	results, err := h.svc.ListComments(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}

	out := make([]CommentResponse, len(results))
	for i, result := range results {
		out[i] = commentResponse(result)
	}
	writeJSON(w, http.StatusOK, out)
}

// --- GET /survey/times ---

func (h *SurveyHandler) LastAnswered(w http.ResponseWriter, r *http.Request) {
	featureURL := r.URL.Query().Get("feature_url")
	userID := r.URL.Query().Get("user_id")
	if featureURL == "" || userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "feature_url and user_id are required"})
		return
	}

	last, err := h.svc.LastTimeUserAnswered(r.Context(), featureURL, userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, last)
}

// --- POST /survey/timestamps ---

func (h *SurveyHandler) AddTimestampKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "key is required"})
		return
	}

	record, err := h.svc.AddTimestampKey(r.Context(), req.Key)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// --- GET /survey/timestamps ---

func (h *SurveyHandler) GetTimestampKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.svc.TimestampKey(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, key)
}

// --- Helpers ---

func (h *SurveyHandler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, survey.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	log.Printf("Survey error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func formatCommentMessage(result *survey.CommentResult) string {
	stars := strings.Repeat("⭐", result.Comment.Rating)
	return fmt.Sprintf("📝 New comment on %s\nUser: %s\nRating: %s\nComment: %s",
		result.FeatureURL, result.Comment.UserID, stars, result.Comment.Description)
}
