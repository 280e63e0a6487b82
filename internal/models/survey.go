package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Survey is the per-project switch for feedback collection.
// Nothing prevents a project from accumulating several survey documents;
// rule creation simply appends and readers take the first match.
type Survey struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   bson.ObjectID `bson:"project" json:"project_id"`
	IsActivated bool          `bson:"is_activated" json:"is_activated"`
}

// SurveyRule carries the per-feature parameters governing how and when
// a feedback prompt appears on that feature.
//
//	Ratio:               percentage of occurrence for the prompt (0-100)
//	DelayToAnswer:       time in ms for the user to respond
//	DelayBeforeReanswer: delay in months before a user is re-prompted
type SurveyRule struct {
	ID                  bson.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID            bson.ObjectID `bson:"survey" json:"survey_id"`
	FeatureID           bson.ObjectID `bson:"feature" json:"feature_id"`
	Ratio               int           `bson:"ratio" json:"ratio"`
	DelayToAnswer       int           `bson:"delay_to_answer" json:"delay_to_answer"`
	DelayBeforeReanswer int           `bson:"delay_before_reanswer" json:"delay_before_reanswer"`
	IsActivated         bool          `bson:"is_activated" json:"is_activated"`
}
