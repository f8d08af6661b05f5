package model

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CourseLesson is the lesson reference embedded in a course's content list.
type CourseLesson struct {
	LessonID bson.ObjectID `bson:"lessonId" json:"lessonId"`
	Content  string        `bson:"content" json:"content"`
}

type Course struct {
	ID          bson.ObjectID  `bson:"_id" json:"id"`
	IsPublished bool           `bson:"isPublished" json:"isPublished"`
	Title       string         `bson:"title" json:"title"`
	URL         string         `bson:"url" json:"url"`
	Content     []CourseLesson `bson:"content" json:"content"`
	Timestamps  `bson:",inline"`
}

func (c *Course) LessonCount() int {
	return len(c.Content)
}

// LessonIDs returns the course lessons in content order.
func (c *Course) LessonIDs() []bson.ObjectID {
	ids := make([]bson.ObjectID, len(c.Content))
	for i, item := range c.Content {
		ids[i] = item.LessonID
	}
	return ids
}
