package repository

import (
	"context"
	"course_seeder/internal/model"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	CollectionUsers       = "users"
	CollectionCourses     = "courses"
	CollectionLessons     = "lessons"
	CollectionEnrollments = "courseEnrollments"
	CollectionScores      = "scores"
)

// Collections lists every collection the seeder writes, in creation order.
var Collections = []string{
	CollectionUsers,
	CollectionCourses,
	CollectionLessons,
	CollectionEnrollments,
	CollectionScores,
}

type UserRepository interface {
	// EnsureIndexes makes emailAddress unique.
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, user *model.User) error
	FindAll(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindAll(ctx context.Context) ([]model.Course, error)
	Count(ctx context.Context) (int64, error)
}

type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	Count(ctx context.Context) (int64, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	// FindByUserID returns the user's enrollments in store order.
	FindByUserID(ctx context.Context, userID bson.ObjectID) ([]model.Enrollment, error)
	Count(ctx context.Context) (int64, error)
}

type ScoreRepository interface {
	Create(ctx context.Context, score *model.Score) error
	FindByUserID(ctx context.Context, userID bson.ObjectID) (*model.Score, error)
	// ReplaceHistory overwrites history and totalPoints of the user's score
	// and returns the document as it was before the update.
	ReplaceHistory(ctx context.Context, userID bson.ObjectID, history []model.ScoreEvent, totalPoints int) (*model.Score, error)
	Count(ctx context.Context) (int64, error)
}

// Store groups the gateway for every collection of one database.
type Store struct {
	Users       UserRepository
	Courses     CourseRepository
	Lessons     LessonRepository
	Enrollments EnrollmentRepository
	Scores      ScoreRepository
}

// Counts returns the number of documents per collection.
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	counters := map[string]func(context.Context) (int64, error){
		CollectionUsers:       s.Users.Count,
		CollectionCourses:     s.Courses.Count,
		CollectionLessons:     s.Lessons.Count,
		CollectionEnrollments: s.Enrollments.Count,
		CollectionScores:      s.Scores.Count,
	}

	counts := make(map[string]int64, len(counters))
	for _, name := range Collections {
		n, err := counters[name](ctx)
		if err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, nil
}
