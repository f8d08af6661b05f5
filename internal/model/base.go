package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Timestamps is embedded inline in every seeded document.
type Timestamps struct {
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func NewID() bson.ObjectID {
	return bson.NewObjectID()
}
