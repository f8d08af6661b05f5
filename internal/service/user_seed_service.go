package service

import (
	"context"
	"course_seeder/internal/config"
	"course_seeder/internal/model"
	"course_seeder/internal/repository"
	"course_seeder/internal/util"
	"course_seeder/pkg/logger"
	"course_seeder/pkg/monitoring"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserSeedService generates users together with their initial zero score.
type UserSeedService struct {
	UserRepo  repository.UserRepository
	ScoreRepo repository.ScoreRepository
	Random    *Randomness
	Throttle  *WriteThrottle
	cfg       config.SeedConfig
}

func NewUserSeedService(
	userRepo repository.UserRepository,
	scoreRepo repository.ScoreRepository,
	random *Randomness,
	throttle *WriteThrottle,
	cfg config.SeedConfig,
) *UserSeedService {
	return &UserSeedService{
		UserRepo:  userRepo,
		ScoreRepo: scoreRepo,
		Random:    random,
		Throttle:  throttle,
		cfg:       cfg,
	}
}

func (s *UserSeedService) bcryptCost() int {
	cost := s.cfg.BcryptCost
	if cost < bcrypt.MinCost {
		return bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cost
}

// uniqueEmail draws emails until one has not been used in this run.
func (s *UserSeedService) uniqueEmail(seen map[string]struct{}) string {
	for {
		email := s.Random.Faker.Email()
		if _, ok := seen[email]; !ok {
			seen[email] = struct{}{}
			return email
		}
	}
}

// InitialScore references a random course and its first lesson with zero points.
func (s *UserSeedService) InitialScore(user model.User, courses []model.Course, now time.Time) *model.Score {
	course := courses[s.Random.Rand.IntN(len(courses))]
	event := model.ScoreEvent{
		Point:    0,
		Date:     now,
		CourseID: course.ID,
	}
	if ids := course.LessonIDs(); len(ids) > 0 {
		event.Lesson = &model.CompletedLesson{LessonID: ids[0], Date: now}
	}

	return &model.Score{
		ID:          model.NewID(),
		UserID:      user.ID,
		TotalPoints: 0,
		History:     []model.ScoreEvent{event},
		Timestamps:  model.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
}

func (s *UserSeedService) GenerateUsers(ctx context.Context, courses []model.Course) (int, error) {
	if s.cfg.Users > 0 && len(courses) == 0 {
		return 0, util.ErrNoCourses
	}

	seen := make(map[string]struct{}, s.cfg.Users)
	cost := s.bcryptCost()

	for i := 0; i < s.cfg.Users; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Password), cost)
		if err != nil {
			return i, fmt.Errorf("hash password: %w", err)
		}

		now := time.Now()
		user := &model.User{
			ID:           model.NewID(),
			EmailAddress: s.uniqueEmail(seen),
			Name:         s.Random.Faker.Name(),
			PasswordHash: string(hash),
			CreatedAt:    now,
		}
		score := s.InitialScore(*user, courses, now)

		if err := s.Throttle.Wait(ctx); err != nil {
			return i, err
		}
		if err := s.UserRepo.Create(ctx, user); err != nil {
			return i, fmt.Errorf("create user %d: %w", i+1, err)
		}
		monitoring.DocumentsInserted.WithLabelValues(repository.CollectionUsers).Inc()

		if err := s.Throttle.Wait(ctx); err != nil {
			return i, err
		}
		if err := s.ScoreRepo.Create(ctx, score); err != nil {
			return i, fmt.Errorf("create score of user %s: %w", user.ID.Hex(), err)
		}
		monitoring.DocumentsInserted.WithLabelValues(repository.CollectionScores).Inc()

		if (i+1)%250 == 0 {
			logger.Log.Info("users generated", zap.Int("count", i+1), zap.Int("total", s.cfg.Users))
		}
	}

	return s.cfg.Users, nil
}
