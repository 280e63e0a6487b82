package repository

import (
	"context"

	"ottm-backend/internal/database"
	"ottm-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type SurveyRepo struct {
	surveys *mongo.Collection
	rules   *mongo.Collection
}

func NewSurveyRepo() *SurveyRepo {
	return &SurveyRepo{
		surveys: database.GetCollection("surveys"),
		rules:   database.GetCollection("survey_rules"),
	}
}

func (r *SurveyRepo) CreateSurvey(ctx context.Context, survey *models.Survey) error {
	result, err := r.surveys.InsertOne(ctx, survey)
	if err != nil {
		return err
	}
	survey.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *SurveyRepo) CreateRules(ctx context.Context, rules []*models.SurveyRule) error {
	if len(rules) == 0 {
		return nil
	}
	docs := make([]interface{}, len(rules))
	for i, rule := range rules {
		docs[i] = rule
	}
	result, err := r.rules.InsertMany(ctx, docs)
	if err != nil {
		return err
	}
	for i, id := range result.InsertedIDs {
		rules[i].ID = id.(bson.ObjectID)
	}
	return nil
}

// FindRuleByFeature returns the first rule referencing the feature, in the
// store's natural order.
func (r *SurveyRepo) FindRuleByFeature(ctx context.Context, featureID bson.ObjectID) (*models.SurveyRule, error) {
	var rule models.SurveyRule
	err := r.rules.FindOne(ctx, bson.M{"feature": featureID}).Decode(&rule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *SurveyRepo) DeleteRulesByFeature(ctx context.Context, featureID bson.ObjectID) error {
	_, err := r.rules.DeleteMany(ctx, bson.M{"feature": featureID})
	return err
}

func (r *SurveyRepo) DeleteByProject(ctx context.Context, projectID bson.ObjectID) error {
	_, err := r.surveys.DeleteMany(ctx, bson.M{"project": projectID})
	return err
}

// EnsureIndexes creates the feature lookup index on rules.
func (r *SurveyRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.rules.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "feature", Value: 1}},
	})
	return err
}
