package repository

import (
	"context"
	"course_seeder/internal/model"
	"course_seeder/internal/util"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// exerciseStore runs the same scenario against every gateway backend.
func exerciseStore(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	if err := store.Users.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() error = %v", err)
	}

	lesson := &model.Lesson{ID: model.NewID(), Title: "Pointers", Body: "body", Timestamps: model.Timestamps{CreatedAt: now, UpdatedAt: now}}
	if err := store.Lessons.Create(ctx, lesson); err != nil {
		t.Fatalf("Lessons.Create() error = %v", err)
	}

	course := &model.Course{
		ID:         model.NewID(),
		Title:      "C basics",
		Content:    []model.CourseLesson{{LessonID: lesson.ID, Content: lesson.Body}},
		Timestamps: model.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if err := store.Courses.Create(ctx, course); err != nil {
		t.Fatalf("Courses.Create() error = %v", err)
	}

	courses, err := store.Courses.FindAll(ctx)
	if err != nil {
		t.Fatalf("Courses.FindAll() error = %v", err)
	}
	if len(courses) != 1 || courses[0].ID != course.ID {
		t.Fatalf("Courses.FindAll() = %+v, want the inserted course", courses)
	}
	if got := courses[0].LessonIDs(); len(got) != 1 || got[0] != lesson.ID {
		t.Errorf("course lessons = %v, want [%s]", got, lesson.ID.Hex())
	}

	user := &model.User{ID: model.NewID(), EmailAddress: "ada@example.com", Name: "Ada", CreatedAt: now}
	if err := store.Users.Create(ctx, user); err != nil {
		t.Fatalf("Users.Create() error = %v", err)
	}
	dup := &model.User{ID: model.NewID(), EmailAddress: "ada@example.com", Name: "Other", CreatedAt: now}
	if err := store.Users.Create(ctx, dup); err == nil {
		t.Error("Users.Create() accepted a duplicate email")
	}

	users, err := store.Users.FindAll(ctx)
	if err != nil {
		t.Fatalf("Users.FindAll() error = %v", err)
	}
	if len(users) != 1 || users[0].ID != user.ID {
		t.Fatalf("Users.FindAll() = %+v, want one user", users)
	}

	completed := []model.CompletedLesson{{LessonID: lesson.ID, Date: now}}
	first := model.NewEnrollment(user.ID, course.ID, completed, now)
	second := model.NewEnrollment(user.ID, course.ID, nil, now)
	other := model.NewEnrollment(model.NewID(), course.ID, completed, now)
	for _, e := range []*model.Enrollment{first, second, other} {
		if err := store.Enrollments.Create(ctx, e); err != nil {
			t.Fatalf("Enrollments.Create() error = %v", err)
		}
	}

	enrollments, err := store.Enrollments.FindByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Enrollments.FindByUserID() error = %v", err)
	}
	if len(enrollments) != 2 {
		t.Fatalf("Enrollments.FindByUserID() returned %d enrollments, want 2", len(enrollments))
	}
	counts := map[int]int{}
	for _, e := range enrollments {
		counts[e.CompletedLessonCount()]++
		if e.CompletedLessonCount() == 0 && e.LastCompleted() != nil {
			t.Error("empty enrollment has a last completed lesson")
		}
		if e.CompletedLessonCount() == 1 && (e.LastCompleted() == nil || e.LastCompleted().LessonID != lesson.ID) {
			t.Errorf("last completed lesson = %+v, want %s", e.LastCompleted(), lesson.ID.Hex())
		}
	}
	if counts[0] != 1 || counts[1] != 1 {
		t.Errorf("completion counts = %v, want one empty and one with a lesson", counts)
	}

	score := &model.Score{
		ID:         model.NewID(),
		UserID:     user.ID,
		History:    []model.ScoreEvent{{Point: 0, Date: now, CourseID: course.ID, Lesson: &model.CompletedLesson{LessonID: lesson.ID, Date: now}}},
		Timestamps: model.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if err := store.Scores.Create(ctx, score); err != nil {
		t.Fatalf("Scores.Create() error = %v", err)
	}

	history := []model.ScoreEvent{
		{Point: 60, Date: now, CourseID: course.ID, Lesson: &completed[0]},
		{Point: 100, Date: now, CourseID: course.ID},
	}
	previous, err := store.Scores.ReplaceHistory(ctx, user.ID, history, 160)
	if err != nil {
		t.Fatalf("Scores.ReplaceHistory() error = %v", err)
	}
	if previous.TotalPoints != 0 || len(previous.History) != 1 {
		t.Errorf("previous score = %+v, want the initial zero score", previous)
	}

	updated, err := store.Scores.FindByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Scores.FindByUserID() error = %v", err)
	}
	if updated.TotalPoints != 160 || len(updated.History) != 2 {
		t.Fatalf("updated score = %+v, want total 160 with two events", updated)
	}
	if !updated.Consistent() {
		t.Error("updated score total does not match its history")
	}
	if updated.History[0].Lesson == nil || updated.History[0].Lesson.LessonID != lesson.ID {
		t.Errorf("history[0].Lesson = %+v, want %s", updated.History[0].Lesson, lesson.ID.Hex())
	}
	if updated.History[1].Lesson != nil {
		t.Errorf("history[1].Lesson = %+v, want nil", updated.History[1].Lesson)
	}

	if _, err := store.Scores.ReplaceHistory(ctx, bson.NewObjectID(), history, 160); !errors.Is(err, util.ErrScoreNotFound) {
		t.Errorf("ReplaceHistory() for unknown user error = %v, want ErrScoreNotFound", err)
	}

	got, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	want := map[string]int64{
		CollectionUsers:       1,
		CollectionCourses:     1,
		CollectionLessons:     1,
		CollectionEnrollments: 3,
		CollectionScores:      1,
	}
	for name, n := range want {
		if got[name] != n {
			t.Errorf("Counts()[%s] = %d, want %d", name, got[name], n)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore().Store())
}

func TestMemoryStoreUniqueIndexOnExistingDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore().Store()
	for i := 0; i < 2; i++ {
		if err := store.Users.Create(ctx, &model.User{ID: model.NewID(), EmailAddress: "same@example.com"}); err != nil {
			t.Fatalf("Create() before index error = %v", err)
		}
	}
	if err := store.Users.EnsureIndexes(ctx); err == nil {
		t.Fatal("EnsureIndexes() expected an error with duplicate emails present")
	}
}
