package survey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ottm-backend/internal/language"
	"ottm-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrNotFound is the single error kind the survey engine surfaces: a
// referenced project, feature, rule, comment set or key record does not
// exist. Store failures are wrapped and passed through as-is.
var ErrNotFound = errors.New("not found")

// Service implements the survey subsystem: survey activation, per-feature
// rule configuration, comment ingestion with language detection, comment
// querying and last-answered lookup.
type Service struct {
	store    Store
	detector language.Detector
}

func NewService(store Store, detector language.Detector) *Service {
	return &Service{
		store:    store,
		detector: detector,
	}
}

// FeatureRuleSpec is one per-feature rule request inside a survey creation.
type FeatureRuleSpec struct {
	URL                 string
	Ratio               int
	DelayBeforeReanswer int
}

// CreateSurveyInput configures a survey and its per-feature rules.
// DelayToAnswer is survey-level and copied onto every created rule.
type CreateSurveyInput struct {
	ProjectID     bson.ObjectID
	FeatureRules  []FeatureRuleSpec
	IsActivated   bool
	DelayToAnswer int
}

// CommentInput is one user feedback submission.
type CommentInput struct {
	FeatureURL  string
	UserID      string
	Date        time.Time
	Rating      int
	Description string
}

// CommentFilter selects comments across a feature or a whole project.
// All supplied predicates are ANDed; date bounds are inclusive.
type CommentFilter struct {
	Language     *string
	FeatureURL   *string
	ProjectID    *bson.ObjectID
	StartingDate *time.Time
	EndingDate   *time.Time
}

// CommentResult pairs a stored comment with the resource URL of its feature,
// which callers need for presentation but the comment document doesn't carry.
type CommentResult struct {
	Comment    models.SurveyComment
	FeatureURL string
}

// CreateSurveyRules creates the survey record for a project, then one rule
// per feature spec. The survey write and the rules write are two separate
// store calls: if a feature URL does not resolve, no rule is persisted but
// the survey record is already in place and is not rolled back.
func (s *Service) CreateSurveyRules(ctx context.Context, in CreateSurveyInput) ([]models.SurveyRule, error) {
	project, err := s.store.FindProject(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("finding project: %w", err)
	}
	if project == nil {
		return nil, ErrNotFound
	}

	sv := &models.Survey{
		ProjectID:   project.ID,
		IsActivated: in.IsActivated,
	}
	if err := s.store.CreateSurvey(ctx, sv); err != nil {
		return nil, fmt.Errorf("creating survey: %w", err)
	}

	rules := make([]*models.SurveyRule, 0, len(in.FeatureRules))
	for _, spec := range in.FeatureRules {
		feature, err := s.store.FindFeatureByResource(ctx, spec.URL)
		if err != nil {
			return nil, fmt.Errorf("finding feature %q: %w", spec.URL, err)
		}
		if feature == nil {
			return nil, ErrNotFound
		}
		rules = append(rules, &models.SurveyRule{
			SurveyID:            sv.ID,
			FeatureID:           feature.ID,
			Ratio:               spec.Ratio,
			DelayToAnswer:       in.DelayToAnswer,
			DelayBeforeReanswer: spec.DelayBeforeReanswer,
			IsActivated:         true,
		})
	}
	if err := s.store.CreateSurveyRules(ctx, rules); err != nil {
		return nil, fmt.Errorf("creating survey rules: %w", err)
	}

	out := make([]models.SurveyRule, len(rules))
	for i, rule := range rules {
		out[i] = *rule
	}
	return out, nil
}

// GetRuleForFeature returns the first rule referencing the feature with the
// given resource URL. When several rules exist the store's natural order
// decides which one comes back.
func (s *Service) GetRuleForFeature(ctx context.Context, featureURL string) (*models.SurveyRule, error) {
	feature, err := s.store.FindFeatureByResource(ctx, featureURL)
	if err != nil {
		return nil, fmt.Errorf("finding feature %q: %w", featureURL, err)
	}
	if feature == nil {
		return nil, ErrNotFound
	}
	rule, err := s.store.FindRuleByFeature(ctx, feature.ID)
	if err != nil {
		return nil, fmt.Errorf("finding rule: %w", err)
	}
	if rule == nil {
		return nil, ErrNotFound
	}
	return rule, nil
}

// AddComment persists one feedback submission. The comment language is
// detected from the description; detection never fails, unparseable text
// gets the "unknown" tag.
func (s *Service) AddComment(ctx context.Context, in CommentInput) (*CommentResult, error) {
	feature, err := s.store.FindFeatureByResource(ctx, in.FeatureURL)
	if err != nil {
		return nil, fmt.Errorf("finding feature %q: %w", in.FeatureURL, err)
	}
	if feature == nil {
		return nil, ErrNotFound
	}

	comment := &models.SurveyComment{
		FeatureID:   feature.ID,
		UserID:      in.UserID,
		Date:        in.Date,
		Rating:      in.Rating,
		Description: in.Description,
		Language:    s.detector.Detect(in.Description),
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	return &CommentResult{Comment: *comment, FeatureURL: feature.Resource}, nil
}

// ListComments returns comments matching the filter. With a feature URL the
// query targets that single feature; with only a project id every feature of
// the project is queried in turn and the results concatenated in feature
// order. With neither, no query is attempted and the result is empty.
func (s *Service) ListComments(ctx context.Context, filter CommentFilter) ([]CommentResult, error) {
	switch {
	case filter.FeatureURL != nil:
		feature, err := s.store.FindFeatureByResource(ctx, *filter.FeatureURL)
		if err != nil {
			return nil, fmt.Errorf("finding feature %q: %w", *filter.FeatureURL, err)
		}
		if feature == nil {
			return nil, ErrNotFound
		}
		return s.commentsForFeature(ctx, feature, filter)

	case filter.ProjectID != nil:
		features, err := s.store.FindFeaturesByProject(ctx, *filter.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("finding project features: %w", err)
		}
		results := []CommentResult{}
		for i := range features {
			part, err := s.commentsForFeature(ctx, &features[i], filter)
			if err != nil {
				return nil, err
			}
			results = append(results, part...)
		}
		return results, nil

	default:
		// No feature and no project: nothing to query.
		return []CommentResult{}, nil
	}
}

func (s *Service) commentsForFeature(ctx context.Context, feature *models.Feature, filter CommentFilter) ([]CommentResult, error) {
	comments, err := s.store.FindComments(ctx, CommentQuery{
		FeatureID:    feature.ID,
		Language:     filter.Language,
		StartingDate: filter.StartingDate,
		EndingDate:   filter.EndingDate,
	})
	if err != nil {
		return nil, fmt.Errorf("finding comments: %w", err)
	}
	results := make([]CommentResult, len(comments))
	for i, comment := range comments {
		results[i] = CommentResult{Comment: comment, FeatureURL: feature.Resource}
	}
	return results, nil
}

// LastTimeUserAnswered returns the date of the most recent comment the user
// left on the feature. Callers compare it against the rule's reanswer delay
// to decide whether the user is eligible for a new prompt.
func (s *Service) LastTimeUserAnswered(ctx context.Context, featureURL, userID string) (time.Time, error) {
	feature, err := s.store.FindFeatureByResource(ctx, featureURL)
	if err != nil {
		return time.Time{}, fmt.Errorf("finding feature %q: %w", featureURL, err)
	}
	if feature == nil {
		return time.Time{}, ErrNotFound
	}

	comments, err := s.store.FindComments(ctx, CommentQuery{
		FeatureID:    feature.ID,
		UserID:       &userID,
		SortDateDesc: true,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("finding comments: %w", err)
	}
	if len(comments) == 0 {
		return time.Time{}, ErrNotFound
	}
	return comments[0].Date, nil
}

// AddTimestampKey stores the encoded timestamp encryption key as-is. Nothing
// enforces uniqueness; a second call leaves two records behind.
func (s *Service) AddTimestampKey(ctx context.Context, key string) (*models.SurveyKeyTimestamp, error) {
	record := &models.SurveyKeyTimestamp{Key: key}
	if err := s.store.CreateTimestampKey(ctx, record); err != nil {
		return nil, fmt.Errorf("creating timestamp key: %w", err)
	}
	return record, nil
}

// TimestampKey returns the stored encryption key, whichever record the store
// yields first when duplicates exist.
func (s *Service) TimestampKey(ctx context.Context) (string, error) {
	record, err := s.store.FindTimestampKey(ctx)
	if err != nil {
		return "", fmt.Errorf("finding timestamp key: %w", err)
	}
	if record == nil {
		return "", ErrNotFound
	}
	return record.Key, nil
}
