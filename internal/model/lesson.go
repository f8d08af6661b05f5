package model

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Lesson does not reference the course that embeds it.
type Lesson struct {
	ID          bson.ObjectID `bson:"_id" json:"id"`
	IsPublished bool          `bson:"isPublished" json:"isPublished"`
	Title       string        `bson:"title" json:"title"`
	URL         string        `bson:"url" json:"url"`
	Body        string        `bson:"body" json:"body"`
	Timestamps  `bson:",inline"`
}
