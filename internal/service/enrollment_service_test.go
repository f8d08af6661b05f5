package service

import (
	"context"
	"course_seeder/internal/model"
	"course_seeder/internal/repository"
	"course_seeder/internal/util"
	"errors"
	"testing"
	"time"
)

func TestEnrollmentServiceGenerateForUser(t *testing.T) {
	ctx := context.Background()
	cfg := testSeedConfig()
	store := repository.NewMemoryStore().Store()
	courses := seedCatalog(t, store, cfg)

	lessonCount := map[string]int{}
	for _, c := range courses {
		lessonCount[c.ID.Hex()] = c.LessonCount()
	}

	svc := NewEnrollmentService(store.Enrollments, NewRandomness(7), nil, cfg)
	picked := map[string]bool{}

	for i := 0; i < 200; i++ {
		user := model.User{ID: model.NewID()}
		n, err := svc.GenerateForUser(ctx, user, courses)
		if err != nil {
			t.Fatalf("GenerateForUser() error = %v", err)
		}
		if n < 1 || n > cfg.MaxEnrollments {
			t.Fatalf("GenerateForUser() = %d enrollments, want within [1, %d]", n, cfg.MaxEnrollments)
		}

		enrollments, err := store.Enrollments.FindByUserID(ctx, user.ID)
		if err != nil {
			t.Fatalf("FindByUserID() error = %v", err)
		}
		if len(enrollments) != n {
			t.Fatalf("stored %d enrollments, reported %d", len(enrollments), n)
		}
		for _, e := range enrollments {
			picked[e.CourseID.Hex()] = true
			if got, max := e.CompletedLessonCount(), lessonCount[e.CourseID.Hex()]; got < 0 || got > max {
				t.Errorf("enrollment has %d completed lessons, course has %d", got, max)
			}
		}
	}

	// every course is reachable, not only the first ten
	if len(picked) != len(courses) {
		t.Errorf("enrollments reference %d distinct courses, want all %d", len(picked), len(courses))
	}
}

func TestEnrollmentServiceNoCourses(t *testing.T) {
	store := repository.NewMemoryStore().Store()
	svc := NewEnrollmentService(store.Enrollments, NewRandomness(1), nil, testSeedConfig())

	if _, err := svc.GenerateForUser(context.Background(), model.User{ID: model.NewID()}, nil); !errors.Is(err, util.ErrNoCourses) {
		t.Fatalf("GenerateForUser() error = %v, want ErrNoCourses", err)
	}
}

func TestCompletedLessons(t *testing.T) {
	lessons := make([]model.CourseLesson, 20)
	for i := range lessons {
		lessons[i] = model.CourseLesson{LessonID: model.NewID()}
	}
	course := model.Course{Content: lessons}
	ids := course.LessonIDs()
	valid := map[string]bool{}
	for _, id := range ids {
		valid[id.Hex()] = true
	}

	tests := []struct {
		name   string
		unique bool
	}{
		{"with replacement", false},
		{"without replacement", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testSeedConfig()
			cfg.UniqueCompletions = tt.unique
			svc := NewEnrollmentService(nil, NewRandomness(99), nil, cfg)

			sawZero, sawFull := false, false
			for i := 0; i < 2000; i++ {
				completed := svc.CompletedLessons(ids, time.Now())
				if len(completed) > len(ids) {
					t.Fatalf("drew %d completions from %d lessons", len(completed), len(ids))
				}
				sawZero = sawZero || len(completed) == 0
				sawFull = sawFull || len(completed) == len(ids)

				seen := map[string]bool{}
				for _, c := range completed {
					if !valid[c.LessonID.Hex()] {
						t.Fatalf("completion references lesson %s outside the course", c.LessonID.Hex())
					}
					if tt.unique && seen[c.LessonID.Hex()] {
						t.Fatalf("lesson %s completed twice with unique completions", c.LessonID.Hex())
					}
					seen[c.LessonID.Hex()] = true
				}
			}
			if !sawZero || !sawFull {
				t.Errorf("completion counts never reached the bounds: zero=%v full=%v", sawZero, sawFull)
			}
		})
	}
}

func TestCompletedLessonsEmptyCourse(t *testing.T) {
	svc := NewEnrollmentService(nil, NewRandomness(3), nil, testSeedConfig())
	if got := svc.CompletedLessons(nil, time.Now()); len(got) != 0 {
		t.Errorf("CompletedLessons(nil) = %v, want none", got)
	}
}
