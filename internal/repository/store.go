package repository

import (
	"context"

	"ottm-backend/internal/models"
	"ottm-backend/internal/survey"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Store bundles the per-collection repos into the persistence surface the
// survey engine consumes.
type Store struct {
	Projects *ProjectRepo
	Features *FeatureRepo
	Surveys  *SurveyRepo
	Comments *CommentRepo
	Keys     *KeyRepo
}

func NewStore() *Store {
	return &Store{
		Projects: NewProjectRepo(),
		Features: NewFeatureRepo(),
		Surveys:  NewSurveyRepo(),
		Comments: NewCommentRepo(),
		Keys:     NewKeyRepo(),
	}
}

// EnsureIndexes creates the indexes of every collection the store owns.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := s.Projects.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := s.Features.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := s.Surveys.EnsureIndexes(ctx); err != nil {
		return err
	}
	return s.Comments.EnsureIndexes(ctx)
}

func (s *Store) FindProject(ctx context.Context, id bson.ObjectID) (*models.Project, error) {
	return s.Projects.FindByID(ctx, id)
}

func (s *Store) FindFeatureByResource(ctx context.Context, resource string) (*models.Feature, error) {
	return s.Features.FindByResource(ctx, resource)
}

func (s *Store) FindFeaturesByProject(ctx context.Context, projectID bson.ObjectID) ([]models.Feature, error) {
	return s.Features.FindByProject(ctx, projectID)
}

func (s *Store) CreateSurvey(ctx context.Context, sv *models.Survey) error {
	return s.Surveys.CreateSurvey(ctx, sv)
}

func (s *Store) CreateSurveyRules(ctx context.Context, rules []*models.SurveyRule) error {
	return s.Surveys.CreateRules(ctx, rules)
}

func (s *Store) FindRuleByFeature(ctx context.Context, featureID bson.ObjectID) (*models.SurveyRule, error) {
	return s.Surveys.FindRuleByFeature(ctx, featureID)
}

func (s *Store) CreateComment(ctx context.Context, comment *models.SurveyComment) error {
	return s.Comments.Create(ctx, comment)
}

func (s *Store) FindComments(ctx context.Context, query survey.CommentQuery) ([]models.SurveyComment, error) {
	return s.Comments.Find(ctx, query)
}

func (s *Store) CreateTimestampKey(ctx context.Context, key *models.SurveyKeyTimestamp) error {
	return s.Keys.Create(ctx, key)
}

func (s *Store) FindTimestampKey(ctx context.Context) (*models.SurveyKeyTimestamp, error) {
	return s.Keys.FindAny(ctx)
}
