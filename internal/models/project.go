package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Project is a monitored application. A project contains many features
// (e.g. the pages of a web application) and at most one survey configuration.
type Project struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Config      bson.M        `bson:"config,omitempty" json:"config,omitempty"`
	Synced      *time.Time    `bson:"synced,omitempty" json:"synced,omitempty"`
	IsActive    bool          `bson:"is_active" json:"is_active"`
	Payload     bson.M        `bson:"payload,omitempty" json:"payload,omitempty"`
}
