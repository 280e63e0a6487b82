package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ottm-backend/internal/language"
	"ottm-backend/internal/models"
	"ottm-backend/internal/notify"
	"ottm-backend/internal/survey"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// stubStore backs the handler tests with in-memory data.
type stubStore struct {
	projects map[bson.ObjectID]models.Project
	features []models.Feature
	surveys  []models.Survey
	rules    []models.SurveyRule
	comments []models.SurveyComment
	keys     []models.SurveyKeyTimestamp
}

func (s *stubStore) FindProject(_ context.Context, id bson.ObjectID) (*models.Project, error) {
	if project, ok := s.projects[id]; ok {
		return &project, nil
	}
	return nil, nil
}

func (s *stubStore) FindFeatureByResource(_ context.Context, resource string) (*models.Feature, error) {
	for _, feature := range s.features {
		if feature.Resource == resource {
			return &feature, nil
		}
	}
	return nil, nil
}

func (s *stubStore) FindFeaturesByProject(_ context.Context, projectID bson.ObjectID) ([]models.Feature, error) {
	features := []models.Feature{}
	for _, feature := range s.features {
		if feature.ProjectID == projectID {
			features = append(features, feature)
		}
	}
	return features, nil
}

func (s *stubStore) CreateSurvey(_ context.Context, sv *models.Survey) error {
	sv.ID = bson.NewObjectID()
	s.surveys = append(s.surveys, *sv)
	return nil
}

func (s *stubStore) CreateSurveyRules(_ context.Context, rules []*models.SurveyRule) error {
	for _, rule := range rules {
		rule.ID = bson.NewObjectID()
		s.rules = append(s.rules, *rule)
	}
	return nil
}

func (s *stubStore) FindRuleByFeature(_ context.Context, featureID bson.ObjectID) (*models.SurveyRule, error) {
	for _, rule := range s.rules {
		if rule.FeatureID == featureID {
			return &rule, nil
		}
	}
	return nil, nil
}

func (s *stubStore) CreateComment(_ context.Context, comment *models.SurveyComment) error {
	comment.ID = bson.NewObjectID()
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *stubStore) FindComments(_ context.Context, query survey.CommentQuery) ([]models.SurveyComment, error) {
	comments := []models.SurveyComment{}
	for _, comment := range s.comments {
		if comment.FeatureID == query.FeatureID {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func (s *stubStore) CreateTimestampKey(_ context.Context, key *models.SurveyKeyTimestamp) error {
	key.ID = bson.NewObjectID()
	s.keys = append(s.keys, *key)
	return nil
}

func (s *stubStore) FindTimestampKey(_ context.Context) (*models.SurveyKeyTimestamp, error) {
	if len(s.keys) == 0 {
		return nil, nil
	}
	return &s.keys[0], nil
}

type stubDetector struct{}

func (stubDetector) Detect(text string) string {
	if text == "" {
		return language.Unknown
	}
	return "en"
}

func newTestRouter(store *stubStore) *chi.Mux {
	svc := survey.NewService(store, stubDetector{})
	handler := NewSurveyHandler(svc, notify.NewMock())

	r := chi.NewRouter()
	r.Post("/survey", handler.CreateRules)
	r.Get("/survey/rules", handler.GetRule)
	r.Post("/survey/comments", handler.AddComment)
	r.Get("/survey/projects/{project_id}/comments", handler.ListComments)
	r.Get("/survey/times", handler.LastAnswered)
	r.Post("/survey/timestamps", handler.AddTimestampKey)
	r.Get("/survey/timestamps", handler.GetTimestampKey)
	return r
}

func seedStore() (*stubStore, bson.ObjectID) {
	projectID := bson.NewObjectID()
	store := &stubStore{
		projects: map[bson.ObjectID]models.Project{
			projectID: {ID: projectID, Name: "P1", IsActive: true},
		},
	}
	store.features = []models.Feature{
		{ID: bson.NewObjectID(), ProjectID: projectID, Name: "home", Resource: "/home"},
		{ID: bson.NewObjectID(), ProjectID: projectID, Name: "cart", Resource: "/cart"},
	}
	return store, projectID
}

func doRequest(router *chi.Mux, method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateRulesEndpoint(t *testing.T) {
	store, projectID := seedStore()
	router := newTestRouter(store)

	rec := doRequest(router, http.MethodPost, "/survey", map[string]interface{}{
		"project_id":      projectID.Hex(),
		"is_activated":    true,
		"delay_to_answer": 3000,
		"feature_rules": []map[string]interface{}{
			{"url": "/home", "ratio": 50, "delay_before_new_proposition": 1},
			{"url": "/cart", "ratio": 20, "delay_before_new_proposition": 3},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var rules []SurveyRuleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rules))
	require.Len(t, rules, 2)
	assert.Equal(t, 50, rules[0].RatioDisplay)
	assert.Equal(t, 20, rules[1].RatioDisplay)
	for _, rule := range rules {
		assert.Equal(t, 3000, rule.DelayToAnswer)
		assert.True(t, rule.IsActivated)
		assert.True(t, rule.IsActivatedOnFeature)
	}
}

func TestCreateRulesInvalidProjectID(t *testing.T) {
	store, _ := seedStore()
	router := newTestRouter(store)

	rec := doRequest(router, http.MethodPost, "/survey", map[string]interface{}{
		"project_id": "not-an-object-id",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRulesUnknownProject(t *testing.T) {
	store, _ := seedStore()
	router := newTestRouter(store)

	rec := doRequest(router, http.MethodPost, "/survey", map[string]interface{}{
		"project_id": bson.NewObjectID().Hex(),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRuleEndpoint(t *testing.T) {
	store, _ := seedStore()
	store.rules = []models.SurveyRule{{
		ID:            bson.NewObjectID(),
		FeatureID:     store.features[0].ID,
		Ratio:         50,
		DelayToAnswer: 3000,
		IsActivated:   true,
	}}
	router := newTestRouter(store)

	rec := doRequest(router, http.MethodGet, "/survey/rules?feature_url=/home", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rule SurveyRuleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rule))
	assert.Equal(t, 50, rule.RatioDisplay)

	rec = doRequest(router, http.MethodGet, "/survey/rules?feature_url=/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddCommentEndpoint(t *testing.T) {
	store, _ := seedStore()
	router := newTestRouter(store)

	rec := doRequest(router, http.MethodPost, "/survey/comments", map[string]interface{}{
		"feature_url": "/home",
		"user_id":     "6a1f6a33-55a4-4f46-9a9b-7c0f0e9a7c11",
		"date":        "2023-04-01T12:00:00Z",
		"rating":      4,
		"description": "works like a charm",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var comment CommentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comment))
	assert.Equal(t, "/home", comment.FeatureURL)
	assert.Equal(t, "en", comment.Language)
	assert.Equal(t, 4, comment.Rating)
	require.Len(t, store.comments, 1)
}

func TestAddCommentInvalidUserID(t *testing.T) {
	store, _ := seedStore()
	router := newTestRouter(store)

	rec := doRequest(router, http.MethodPost, "/survey/comments", map[string]interface{}{
		"feature_url": "/home",
		"user_id":     "not-a-uuid",
		"date":        "2023-04-01T12:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.comments)
}

func TestListCommentsEndpoint(t *testing.T) {
	store, projectID := seedStore()
	store.comments = []models.SurveyComment{{
		ID:        bson.NewObjectID(),
		FeatureID: store.features[0].ID,
		UserID:    "u1",
		Date:      time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
		Rating:    5,
		Language:  "en",
	}}
	router := newTestRouter(store)

	rec := doRequest(router, http.MethodGet, "/survey/projects/"+projectID.Hex()+"/comments", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var comments []CommentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "/home", comments[0].FeatureURL)
}

func TestListCommentsEmptyProject(t *testing.T) {
	store, projectID := seedStore()
	router := newTestRouter(store)

	rec := doRequest(router, http.MethodGet, "/survey/projects/"+projectID.Hex()+"/comments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestLastAnsweredEndpoint(t *testing.T) {
	store, _ := seedStore()
	router := newTestRouter(store)

	rec := doRequest(router, http.MethodGet, "/survey/times?feature_url=/home&user_id=u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(router, http.MethodGet, "/survey/times?feature_url=/home", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimestampKeyEndpoints(t *testing.T) {
	store, _ := seedStore()
	router := newTestRouter(store)

	rec := doRequest(router, http.MethodGet, "/survey/timestamps", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(router, http.MethodPost, "/survey/timestamps", map[string]string{
		"key": "c2VjcmV0LWtleQ==",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(router, http.MethodGet, "/survey/timestamps", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"c2VjcmV0LWtleQ=="`, rec.Body.String())
}
