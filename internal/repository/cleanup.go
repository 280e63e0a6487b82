package repository

import (
	"context"

	"ottm-backend/internal/database"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Cleanup removes the documents left dangling when a project or feature is
// deleted. The store has no foreign keys, so the cascade is plain
// housekeeping: a sequence of independent deletes with no transaction
// around them.
type Cleanup struct {
	features *FeatureRepo
	surveys  *SurveyRepo
	comments *CommentRepo
}

func NewCleanup(features *FeatureRepo, surveys *SurveyRepo, comments *CommentRepo) *Cleanup {
	return &Cleanup{
		features: features,
		surveys:  surveys,
		comments: comments,
	}
}

// PurgeFeature removes the rules, comments and time-series buckets tied to
// one feature.
func (c *Cleanup) PurgeFeature(ctx context.Context, featureID bson.ObjectID) error {
	if err := c.surveys.DeleteRulesByFeature(ctx, featureID); err != nil {
		return err
	}
	if err := c.comments.DeleteByFeature(ctx, featureID); err != nil {
		return err
	}
	return deleteSeries(ctx, bson.M{"metadata.feature": featureID}, "traffic", "latency", "availability")
}

// PurgeProject removes every dependent document of a project: its features
// (each purged in turn), surveys and project-scoped time-series buckets.
func (c *Cleanup) PurgeProject(ctx context.Context, projectID bson.ObjectID) error {
	features, err := c.features.FindByProject(ctx, projectID)
	if err != nil {
		return err
	}
	for _, feature := range features {
		if err := c.PurgeFeature(ctx, feature.ID); err != nil {
			return err
		}
	}
	if err := c.features.DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	if err := c.surveys.DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	return deleteSeries(ctx, bson.M{"metadata.project": projectID}, "traffic", "latency", "commit", "exception")
}

func deleteSeries(ctx context.Context, filter bson.M, collections ...string) error {
	for _, name := range collections {
		if _, err := database.GetCollection(name).DeleteMany(ctx, filter); err != nil {
			return err
		}
	}
	return nil
}
