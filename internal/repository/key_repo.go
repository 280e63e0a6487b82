package repository

import (
	"context"

	"ottm-backend/internal/database"
	"ottm-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type KeyRepo struct {
	collection *mongo.Collection
}

func NewKeyRepo() *KeyRepo {
	return &KeyRepo{
		collection: database.GetCollection("survey_key_timestamps"),
	}
}

func (r *KeyRepo) Create(ctx context.Context, key *models.SurveyKeyTimestamp) error {
	result, err := r.collection.InsertOne(ctx, key)
	if err != nil {
		return err
	}
	key.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// FindAny returns one key record, whichever comes first. No uniqueness is
// enforced on insert, so with duplicates the result is store-dependent.
func (r *KeyRepo) FindAny(ctx context.Context) (*models.SurveyKeyTimestamp, error) {
	var key models.SurveyKeyTimestamp
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&key)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &key, nil
}
