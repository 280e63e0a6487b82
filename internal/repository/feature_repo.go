package repository

import (
	"context"

	"ottm-backend/internal/database"
	"ottm-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type FeatureRepo struct {
	collection *mongo.Collection
}

func NewFeatureRepo() *FeatureRepo {
	return &FeatureRepo{
		collection: database.GetCollection("features"),
	}
}

func (r *FeatureRepo) CreateMany(ctx context.Context, features []*models.Feature) error {
	if len(features) == 0 {
		return nil
	}
	docs := make([]interface{}, len(features))
	for i, feature := range features {
		docs[i] = feature
	}
	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return err
	}
	for i, id := range result.InsertedIDs {
		features[i].ID = id.(bson.ObjectID)
	}
	return nil
}

func (r *FeatureRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Feature, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByResource looks a feature up by its resource string (exact match).
// The resource, usually a URL, is the survey subsystem's natural key.
func (r *FeatureRepo) FindByResource(ctx context.Context, resource string) (*models.Feature, error) {
	return r.findOne(ctx, bson.M{"resource": resource})
}

func (r *FeatureRepo) findOne(ctx context.Context, filter bson.M) (*models.Feature, error) {
	var feature models.Feature
	err := r.collection.FindOne(ctx, filter).Decode(&feature)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &feature, nil
}

func (r *FeatureRepo) FindByProject(ctx context.Context, projectID bson.ObjectID) ([]models.Feature, error) {
	return r.find(ctx, bson.M{"project": projectID})
}

// List returns all features, optionally restricted to an exact name match.
func (r *FeatureRepo) List(ctx context.Context, name string) ([]models.Feature, error) {
	filter := bson.M{}
	if name != "" {
		filter["name"] = name
	}
	return r.find(ctx, filter)
}

func (r *FeatureRepo) find(ctx context.Context, filter bson.M) ([]models.Feature, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	features := []models.Feature{}
	if err := cursor.All(ctx, &features); err != nil {
		return nil, err
	}
	return features, nil
}

func (r *FeatureRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *FeatureRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *FeatureRepo) DeleteByProject(ctx context.Context, projectID bson.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"project": projectID})
	return err
}

// EnsureIndexes creates the resource lookup index.
func (r *FeatureRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "resource", Value: 1}}},
		{Keys: bson.D{{Key: "project", Value: 1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
