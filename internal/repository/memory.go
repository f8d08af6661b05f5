package repository

import (
	"context"
	"course_seeder/internal/model"
	"course_seeder/internal/util"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryStore keeps documents in process memory. It backs the "memory"
// driver used for dry runs, returns documents in insertion order and
// enforces the unique email index once EnsureIndexes has run.
type MemoryStore struct {
	mu          sync.Mutex
	uniqueEmail bool
	emails      map[string]struct{}
	users       []model.User
	courses     []model.Course
	lessons     []model.Lesson
	enrollments []model.Enrollment
	scores      []model.Score
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{emails: map[string]struct{}{}}
}

// Store exposes the memory store through the gateway interfaces.
func (m *MemoryStore) Store() *Store {
	return &Store{
		Users:       memoryUsers{m},
		Courses:     memoryCourses{m},
		Lessons:     memoryLessons{m},
		Enrollments: memoryEnrollments{m},
		Scores:      memoryScores{m},
	}
}

type memoryUsers struct{ m *MemoryStore }

func (r memoryUsers) EnsureIndexes(ctx context.Context) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if _, dup := r.m.emails[u.EmailAddress]; dup {
			return fmt.Errorf("build unique index on emailAddress: duplicate %q", u.EmailAddress)
		}
		r.m.emails[u.EmailAddress] = struct{}{}
	}
	r.m.uniqueEmail = true
	return nil
}

func (r memoryUsers) Create(ctx context.Context, user *model.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.uniqueEmail {
		if _, dup := r.m.emails[user.EmailAddress]; dup {
			return fmt.Errorf("insert into %s: duplicate key emailAddress %q", CollectionUsers, user.EmailAddress)
		}
		r.m.emails[user.EmailAddress] = struct{}{}
	}
	r.m.users = append(r.m.users, *user)
	return nil
}

func (r memoryUsers) FindAll(ctx context.Context) ([]model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return append([]model.User{}, r.m.users...), nil
}

func (r memoryUsers) Count(ctx context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.users)), nil
}

type memoryCourses struct{ m *MemoryStore }

func (r memoryCourses) Create(ctx context.Context, course *model.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c := *course
	c.Content = append([]model.CourseLesson{}, course.Content...)
	r.m.courses = append(r.m.courses, c)
	return nil
}

func (r memoryCourses) FindAll(ctx context.Context) ([]model.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return append([]model.Course{}, r.m.courses...), nil
}

func (r memoryCourses) Count(ctx context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.courses)), nil
}

type memoryLessons struct{ m *MemoryStore }

func (r memoryLessons) Create(ctx context.Context, lesson *model.Lesson) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.lessons = append(r.m.lessons, *lesson)
	return nil
}

func (r memoryLessons) Count(ctx context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.lessons)), nil
}

type memoryEnrollments struct{ m *MemoryStore }

func (r memoryEnrollments) Create(ctx context.Context, enrollment *model.Enrollment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e := *enrollment
	e.CompletedLessons = append([]model.CompletedLesson{}, enrollment.CompletedLessons...)
	r.m.enrollments = append(r.m.enrollments, e)
	return nil
}

func (r memoryEnrollments) FindByUserID(ctx context.Context, userID bson.ObjectID) ([]model.Enrollment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []model.Enrollment{}
	for _, e := range r.m.enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memoryEnrollments) Count(ctx context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.enrollments)), nil
}

type memoryScores struct{ m *MemoryStore }

func (r memoryScores) Create(ctx context.Context, score *model.Score) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s := *score
	s.History = append([]model.ScoreEvent{}, score.History...)
	r.m.scores = append(r.m.scores, s)
	return nil
}

func (r memoryScores) FindByUserID(ctx context.Context, userID bson.ObjectID) (*model.Score, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.scores {
		if r.m.scores[i].UserID == userID {
			s := r.m.scores[i]
			s.History = append([]model.ScoreEvent{}, s.History...)
			return &s, nil
		}
	}
	return nil, util.ErrScoreNotFound
}

func (r memoryScores) ReplaceHistory(ctx context.Context, userID bson.ObjectID, history []model.ScoreEvent, totalPoints int) (*model.Score, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.scores {
		if r.m.scores[i].UserID != userID {
			continue
		}
		previous := r.m.scores[i]
		r.m.scores[i].History = append([]model.ScoreEvent{}, history...)
		r.m.scores[i].TotalPoints = totalPoints
		r.m.scores[i].UpdatedAt = time.Now()
		return &previous, nil
	}
	return nil, util.ErrScoreNotFound
}

func (r memoryScores) Count(ctx context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.scores)), nil
}
