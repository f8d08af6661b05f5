package service

import (
	"context"
	"course_seeder/internal/repository"
	"course_seeder/internal/util"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestUserSeedServiceGenerateUsers(t *testing.T) {
	ctx := context.Background()
	cfg := testSeedConfig()
	store := repository.NewMemoryStore().Store()
	courses := seedCatalog(t, store, cfg)

	if err := store.Users.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() error = %v", err)
	}

	svc := NewUserSeedService(store.Users, store.Scores, NewRandomness(cfg.RandomSeed), NewWriteThrottle(0), cfg)
	n, err := svc.GenerateUsers(ctx, courses)
	if err != nil {
		t.Fatalf("GenerateUsers() error = %v", err)
	}
	if n != cfg.Users {
		t.Fatalf("GenerateUsers() = %d, want %d", n, cfg.Users)
	}

	users, err := store.Users.FindAll(ctx)
	if err != nil {
		t.Fatalf("Users.FindAll() error = %v", err)
	}
	if len(users) != cfg.Users {
		t.Fatalf("stored %d users, want %d", len(users), cfg.Users)
	}

	firstLessons := map[string]string{}
	for _, c := range courses {
		firstLessons[c.ID.Hex()] = c.Content[0].LessonID.Hex()
	}

	for _, u := range users {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(cfg.Password)); err != nil {
			t.Errorf("user %s password hash does not match: %v", u.ID.Hex(), err)
		}

		score, err := store.Scores.FindByUserID(ctx, u.ID)
		if err != nil {
			t.Fatalf("user %s has no score: %v", u.ID.Hex(), err)
		}
		if score.TotalPoints != 0 || len(score.History) != 1 || score.History[0].Point != 0 {
			t.Errorf("initial score = %+v, want one zero event", score)
		}
		event := score.History[0]
		first, ok := firstLessons[event.CourseID.Hex()]
		if !ok {
			t.Errorf("initial score references unknown course %s", event.CourseID.Hex())
			continue
		}
		if event.Lesson == nil || event.Lesson.LessonID.Hex() != first {
			t.Errorf("initial score lesson = %+v, want first lesson %s", event.Lesson, first)
		}
	}

	scores, _ := store.Scores.Count(ctx)
	if scores != int64(cfg.Users) {
		t.Errorf("got %d scores, want one per user (%d)", scores, cfg.Users)
	}
}

func TestUserSeedServiceNoCourses(t *testing.T) {
	store := repository.NewMemoryStore().Store()
	svc := NewUserSeedService(store.Users, store.Scores, NewRandomness(1), nil, testSeedConfig())

	if _, err := svc.GenerateUsers(context.Background(), nil); !errors.Is(err, util.ErrNoCourses) {
		t.Fatalf("GenerateUsers() error = %v, want ErrNoCourses", err)
	}
}

func TestUniqueEmail(t *testing.T) {
	svc := &UserSeedService{Random: NewRandomness(5)}
	seen := map[string]struct{}{}
	for i := 0; i < 500; i++ {
		svc.uniqueEmail(seen)
	}
	if len(seen) != 500 {
		t.Errorf("got %d distinct emails, want 500", len(seen))
	}
}

func TestBcryptCostIsClamped(t *testing.T) {
	tests := []struct {
		cost int
		want int
	}{
		{0, bcrypt.MinCost},
		{bcrypt.MinCost + 1, bcrypt.MinCost + 1},
		{99, bcrypt.MaxCost},
	}
	for _, tt := range tests {
		svc := &UserSeedService{cfg: testSeedConfig()}
		svc.cfg.BcryptCost = tt.cost
		if got := svc.bcryptCost(); got != tt.want {
			t.Errorf("bcryptCost() with %d = %d, want %d", tt.cost, got, tt.want)
		}
	}
}
