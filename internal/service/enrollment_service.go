package service

import (
	"context"
	"course_seeder/internal/config"
	"course_seeder/internal/model"
	"course_seeder/internal/repository"
	"course_seeder/internal/util"
	"course_seeder/pkg/monitoring"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// EnrollmentService links users to courses.
type EnrollmentService struct {
	EnrollmentRepo repository.EnrollmentRepository
	Random         *Randomness
	Throttle       *WriteThrottle
	cfg            config.SeedConfig
}

func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	random *Randomness,
	throttle *WriteThrottle,
	cfg config.SeedConfig,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		Random:         random,
		Throttle:       throttle,
		cfg:            cfg,
	}
}

// CompletedLessons draws between 0 and len(lessonIDs) completions. Lessons are
// drawn with replacement unless unique completions are configured.
func (s *EnrollmentService) CompletedLessons(lessonIDs []bson.ObjectID, now time.Time) []model.CompletedLesson {
	r := s.Random.Rand
	total := len(lessonIDs)
	n := r.IntN(total + 1)

	completed := make([]model.CompletedLesson, 0, n)
	if s.cfg.UniqueCompletions {
		for _, idx := range r.Perm(total)[:n] {
			completed = append(completed, model.CompletedLesson{LessonID: lessonIDs[idx], Date: now})
		}
		return completed
	}

	for i := 0; i < n; i++ {
		completed = append(completed, model.CompletedLesson{
			LessonID: lessonIDs[r.IntN(total)],
			Date:     now,
		})
	}
	return completed
}

// GenerateForUser inserts between 1 and MaxEnrollments enrollments for the
// user, each in a course picked uniformly from all courses.
func (s *EnrollmentService) GenerateForUser(ctx context.Context, user model.User, courses []model.Course) (int, error) {
	if len(courses) == 0 {
		return 0, util.ErrNoCourses
	}

	count, err := util.GenerateRandom(s.Random.Rand, s.cfg.MaxEnrollments)
	if err != nil {
		return 0, err
	}

	for i := 0; i < count; i++ {
		course := courses[s.Random.Rand.IntN(len(courses))]
		now := time.Now()
		enrollment := model.NewEnrollment(user.ID, course.ID, s.CompletedLessons(course.LessonIDs(), now), now)

		if err := s.Throttle.Wait(ctx); err != nil {
			return i, err
		}
		if err := s.EnrollmentRepo.Create(ctx, enrollment); err != nil {
			return i, fmt.Errorf("create enrollment of user %s: %w", user.ID.Hex(), err)
		}
		monitoring.DocumentsInserted.WithLabelValues(repository.CollectionEnrollments).Inc()
	}

	return count, nil
}

// GenerateAll runs GenerateForUser for every user and returns the total.
func (s *EnrollmentService) GenerateAll(ctx context.Context, users []model.User, courses []model.Course) (int, error) {
	total := 0
	for _, user := range users {
		n, err := s.GenerateForUser(ctx, user, courses)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
