package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SurveyComment is one user's feedback submission on a feature: the rating,
// the free-text comment and its detected language. Comments are immutable
// once created.
type SurveyComment struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	FeatureID   bson.ObjectID `bson:"feature" json:"feature_id"`
	UserID      string        `bson:"user_id" json:"user_id"`
	Date        time.Time     `bson:"date" json:"date"`
	Rating      int           `bson:"rating" json:"rating"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Language    string        `bson:"language,omitempty" json:"language,omitempty"`
}
