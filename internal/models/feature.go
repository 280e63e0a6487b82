package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Feature is a discrete monitorable part of a project, e.g. a web page.
// The survey subsystem looks features up by their resource string (usually a URL).
// Synced and Payload carry import metadata when the feature comes from a 3rd-party tool.
type Feature struct {
	ID             bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProjectID      bson.ObjectID   `bson:"project" json:"project_id"`
	Name           string          `bson:"name" json:"name"`
	Description    string          `bson:"description,omitempty" json:"description,omitempty"`
	Resource       string          `bson:"resource,omitempty" json:"resource,omitempty"`
	Synced         *time.Time      `bson:"synced,omitempty" json:"synced,omitempty"`
	Payload        bson.M          `bson:"payload,omitempty" json:"payload,omitempty"`
	RequirementIDs []bson.ObjectID `bson:"requirement_ids,omitempty" json:"requirement_ids,omitempty"`
}
