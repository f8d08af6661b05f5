package model

import (
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ScoreEvent is one entry of a score history. Lesson holds the last completed
// lesson of the enrollment that produced it and is nil when there was none.
type ScoreEvent struct {
	Point    int              `bson:"point" json:"point"`
	Date     time.Time        `bson:"date" json:"date"`
	CourseID bson.ObjectID    `bson:"courseId" json:"courseId"`
	Lesson   *CompletedLesson `bson:"lessonId,omitempty" json:"lessonId,omitempty"`
}

type Score struct {
	ID          bson.ObjectID `bson:"_id" json:"id"`
	UserID      bson.ObjectID `bson:"userId" json:"userId"`
	TotalPoints int           `bson:"totalPoints" json:"totalPoints"`
	History     []ScoreEvent  `bson:"history" json:"history"`
	Timestamps  `bson:",inline"`
}

// SumHistory adds up the points of every history entry.
func SumHistory(history []ScoreEvent) int {
	return lo.SumBy(history, func(e ScoreEvent) int {
		return e.Point
	})
}

// Consistent reports whether TotalPoints matches the history.
func (s *Score) Consistent() bool {
	return s.TotalPoints == SumHistory(s.History)
}

// Standing is a user's recomputed total, used by the leaderboard and reports.
type Standing struct {
	UserID      bson.ObjectID `json:"userId"`
	Name        string        `json:"name"`
	TotalPoints int           `json:"totalPoints"`
}
