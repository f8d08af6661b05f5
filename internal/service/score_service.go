package service

import (
	"context"
	"course_seeder/internal/config"
	"course_seeder/internal/model"
	"course_seeder/internal/repository"
	"course_seeder/pkg/logger"
	"course_seeder/pkg/monitoring"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CalculateScore replays enrollments in the given order. The running point
// total starts at enrollments*JoinCoursePoint and is never reset, so each
// history entry is CompletedCoursePoint times the running total so far.
func CalculateScore(enrollments []model.Enrollment, rules config.ScoringConfig, now time.Time) ([]model.ScoreEvent, int) {
	point := len(enrollments) * rules.JoinCoursePoint
	history := make([]model.ScoreEvent, 0, len(enrollments))

	for i := range enrollments {
		enrollment := &enrollments[i]
		point += enrollment.CompletedLessonCount() * rules.CompletedLessonPoint

		history = append(history, model.ScoreEvent{
			Point:    point * rules.CompletedCoursePoint,
			Date:     now,
			CourseID: enrollment.CourseID,
			Lesson:   enrollment.LastCompleted(),
		})
	}

	return history, model.SumHistory(history)
}

// ScoreService recomputes score documents from scratch.
type ScoreService struct {
	EnrollmentRepo repository.EnrollmentRepository
	ScoreRepo      repository.ScoreRepository
	Throttle       *WriteThrottle
	Rules          config.ScoringConfig
}

func NewScoreService(
	enrollmentRepo repository.EnrollmentRepository,
	scoreRepo repository.ScoreRepository,
	throttle *WriteThrottle,
	rules config.ScoringConfig,
) *ScoreService {
	return &ScoreService{
		EnrollmentRepo: enrollmentRepo,
		ScoreRepo:      scoreRepo,
		Throttle:       throttle,
		Rules:          rules,
	}
}

// Recalculate replaces the user's score history and total.
func (s *ScoreService) Recalculate(ctx context.Context, user model.User) (model.Standing, error) {
	enrollments, err := s.EnrollmentRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return model.Standing{}, fmt.Errorf("find enrollments of user %s: %w", user.ID.Hex(), err)
	}

	history, total := CalculateScore(enrollments, s.Rules, time.Now())

	if err := s.Throttle.Wait(ctx); err != nil {
		return model.Standing{}, err
	}
	if _, err := s.ScoreRepo.ReplaceHistory(ctx, user.ID, history, total); err != nil {
		return model.Standing{}, err
	}
	monitoring.ScoresRecomputed.Inc()

	return model.Standing{UserID: user.ID, Name: user.Name, TotalPoints: total}, nil
}

// RecalculateAll runs one scoring pass over users.
func (s *ScoreService) RecalculateAll(ctx context.Context, users []model.User) ([]model.Standing, error) {
	standings := make([]model.Standing, 0, len(users))
	for i, user := range users {
		standing, err := s.Recalculate(ctx, user)
		if err != nil {
			return standings, err
		}
		standings = append(standings, standing)

		if (i+1)%250 == 0 {
			logger.Log.Info("scores recomputed", zap.Int("count", i+1), zap.Int("total", len(users)))
		}
	}
	return standings, nil
}
