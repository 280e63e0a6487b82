package repository

import (
	"context"

	"ottm-backend/internal/database"
	"ottm-backend/internal/models"
	"ottm-backend/internal/survey"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CommentRepo struct {
	collection *mongo.Collection
}

func NewCommentRepo() *CommentRepo {
	return &CommentRepo{
		collection: database.GetCollection("survey_comments"),
	}
}

func (r *CommentRepo) Create(ctx context.Context, comment *models.SurveyComment) error {
	result, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		return err
	}
	comment.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// Find translates the query's optional predicates into a Mongo filter.
// Date bounds are inclusive on both ends.
func (r *CommentRepo) Find(ctx context.Context, query survey.CommentQuery) ([]models.SurveyComment, error) {
	filter := bson.M{"feature": query.FeatureID}
	if query.UserID != nil {
		filter["user_id"] = *query.UserID
	}
	if query.Language != nil {
		filter["language"] = *query.Language
	}
	if query.StartingDate != nil || query.EndingDate != nil {
		dateRange := bson.M{}
		if query.StartingDate != nil {
			dateRange["$gte"] = *query.StartingDate
		}
		if query.EndingDate != nil {
			dateRange["$lte"] = *query.EndingDate
		}
		filter["date"] = dateRange
	}

	opts := options.Find()
	if query.SortDateDesc {
		opts.SetSort(bson.D{{Key: "date", Value: -1}})
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	comments := []models.SurveyComment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepo) DeleteByFeature(ctx context.Context, featureID bson.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"feature": featureID})
	return err
}

// EnsureIndexes creates the feature/date and user lookup indexes.
func (r *CommentRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "feature", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
