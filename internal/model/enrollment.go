package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CompletedLesson marks one lesson completion inside an enrollment.
type CompletedLesson struct {
	LessonID bson.ObjectID `bson:"lessonId" json:"lessonId"`
	Date     time.Time     `bson:"date" json:"date"`
}

type Enrollment struct {
	ID                  bson.ObjectID     `bson:"_id" json:"id"`
	UserID              bson.ObjectID     `bson:"userId" json:"userId"`
	CourseID            bson.ObjectID     `bson:"courseId" json:"courseId"`
	LastVisitedLesson   *bson.ObjectID    `bson:"lastVisitedLesson,omitempty" json:"lastVisitedLesson,omitempty"`
	LastCompletedLesson *CompletedLesson  `bson:"lastCompletedLesson,omitempty" json:"lastCompletedLesson,omitempty"`
	CompletedLessons    []CompletedLesson `bson:"completedLessons" json:"completedLessons"`
	Timestamps          `bson:",inline"`
}

// NewEnrollment derives the last visited and last completed lesson from the
// final completion. Both stay nil when nothing was completed.
func NewEnrollment(userID, courseID bson.ObjectID, completed []CompletedLesson, now time.Time) *Enrollment {
	if completed == nil {
		completed = []CompletedLesson{}
	}
	e := &Enrollment{
		ID:               NewID(),
		UserID:           userID,
		CourseID:         courseID,
		CompletedLessons: completed,
		Timestamps:       Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if last := e.LastCompleted(); last != nil {
		lessonID := last.LessonID
		e.LastVisitedLesson = &lessonID
		e.LastCompletedLesson = last
	}
	return e
}

func (e *Enrollment) CompletedLessonCount() int {
	return len(e.CompletedLessons)
}

// LastCompleted returns a copy of the final completion, or nil.
func (e *Enrollment) LastCompleted() *CompletedLesson {
	if len(e.CompletedLessons) == 0 {
		return nil
	}
	last := e.CompletedLessons[len(e.CompletedLessons)-1]
	return &last
}
