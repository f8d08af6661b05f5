package service

import (
	"context"
	"course_seeder/internal/config"
	"course_seeder/internal/model"
	"course_seeder/internal/repository"
	"testing"
	"time"
)

func testSeedConfig() config.SeedConfig {
	return config.SeedConfig{
		Courses:          12,
		LessonsPerCourse: 5,
		Users:            20,
		MaxEnrollments:   10,
		RandomSeed:       42,
		Password:         "secret",
		BcryptCost:       4,
	}
}

func testRules() config.ScoringConfig {
	return config.ScoringConfig{JoinCoursePoint: 2, CompletedLessonPoint: 1, CompletedCoursePoint: 10}
}

// seedCatalog generates courses into store and returns them as persisted.
func seedCatalog(t *testing.T, store *repository.Store, cfg config.SeedConfig) []model.Course {
	t.Helper()
	ctx := context.Background()
	catalog := NewCatalogService(store.Courses, store.Lessons, NewRandomness(cfg.RandomSeed), nil, cfg)
	if _, err := catalog.GenerateCourses(ctx); err != nil {
		t.Fatalf("GenerateCourses() error = %v", err)
	}
	courses, err := store.Courses.FindAll(ctx)
	if err != nil {
		t.Fatalf("Courses.FindAll() error = %v", err)
	}
	return courses
}

// enrollmentWith builds an enrollment with n completions of one lesson.
func enrollmentWith(user model.User, n int) model.Enrollment {
	now := time.Now()
	lessonID := model.NewID()
	completed := make([]model.CompletedLesson, n)
	for i := range completed {
		completed[i] = model.CompletedLesson{LessonID: lessonID, Date: now}
	}
	return *model.NewEnrollment(user.ID, model.NewID(), completed, now)
}
