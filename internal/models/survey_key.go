package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// SurveyKeyTimestamp holds the base64-encoded key used to encrypt and decrypt
// the timestamps shown to end users. Singleton by convention only: the store
// does not prevent duplicate inserts, the read path takes whichever document
// comes back first.
type SurveyKeyTimestamp struct {
	ID  bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Key string        `bson:"key" json:"key"`
}
