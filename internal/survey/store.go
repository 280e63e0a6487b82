package survey

import (
	"context"
	"time"

	"ottm-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Store is the persistence surface the survey engine needs. Absence is
// signalled with a nil result and a nil error; errors are reserved for
// store failures. There is no cross-document transaction: each call is
// individually atomic at best.
type Store interface {
	FindProject(ctx context.Context, id bson.ObjectID) (*models.Project, error)
	FindFeatureByResource(ctx context.Context, resource string) (*models.Feature, error)
	FindFeaturesByProject(ctx context.Context, projectID bson.ObjectID) ([]models.Feature, error)

	CreateSurvey(ctx context.Context, survey *models.Survey) error
	CreateSurveyRules(ctx context.Context, rules []*models.SurveyRule) error
	FindRuleByFeature(ctx context.Context, featureID bson.ObjectID) (*models.SurveyRule, error)

	CreateComment(ctx context.Context, comment *models.SurveyComment) error
	FindComments(ctx context.Context, query CommentQuery) ([]models.SurveyComment, error)

	CreateTimestampKey(ctx context.Context, key *models.SurveyKeyTimestamp) error
	FindTimestampKey(ctx context.Context) (*models.SurveyKeyTimestamp, error)
}

// CommentQuery selects comments of one feature. Optional fields are
// conjunctive predicates applied only when set; the date bounds are
// inclusive on both ends. The store decides how to translate this —
// query syntax never crosses this boundary.
type CommentQuery struct {
	FeatureID    bson.ObjectID
	UserID       *string
	Language     *string
	StartingDate *time.Time
	EndingDate   *time.Time
	SortDateDesc bool
}
