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

var (
	courseDatesFrom = time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC)
	courseDatesTo   = time.Date(2015, time.January, 31, 0, 0, 0, 0, time.UTC)
)

// CatalogService generates courses and the lessons they embed.
type CatalogService struct {
	CourseRepo repository.CourseRepository
	LessonRepo repository.LessonRepository
	Random     *Randomness
	Throttle   *WriteThrottle
	cfg        config.SeedConfig
}

func NewCatalogService(
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	random *Randomness,
	throttle *WriteThrottle,
	cfg config.SeedConfig,
) *CatalogService {
	return &CatalogService{
		CourseRepo: courseRepo,
		LessonRepo: lessonRepo,
		Random:     random,
		Throttle:   throttle,
		cfg:        cfg,
	}
}

func (s *CatalogService) newLesson(now time.Time) *model.Lesson {
	f := s.Random.Faker
	return &model.Lesson{
		ID:          model.NewID(),
		IsPublished: f.Bool(),
		Title:       f.Sentence(6),
		URL:         f.URL(),
		Body:        f.Paragraph(1, 4, 12, " "),
		Timestamps:  model.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
}

func (s *CatalogService) newCourse() *model.Course {
	f := s.Random.Faker
	return &model.Course{
		ID:          model.NewID(),
		IsPublished: f.Bool(),
		Title:       f.Sentence(6),
		URL:         f.URL(),
		Content:     make([]model.CourseLesson, 0, s.cfg.LessonsPerCourse),
		Timestamps: model.Timestamps{
			CreatedAt: f.DateRange(courseDatesFrom, courseDatesTo),
			UpdatedAt: f.DateRange(courseDatesFrom, courseDatesTo),
		},
	}
}

// GenerateCourses inserts every lesson of a course before the course itself,
// so a course never references a lesson that was not written.
func (s *CatalogService) GenerateCourses(ctx context.Context) (int, error) {
	for i := 0; i < s.cfg.Courses; i++ {
		course := s.newCourse()

		for j := 0; j < s.cfg.LessonsPerCourse; j++ {
			lesson := s.newLesson(time.Now())
			if err := s.Throttle.Wait(ctx); err != nil {
				return i, err
			}
			if err := s.LessonRepo.Create(ctx, lesson); err != nil {
				return i, fmt.Errorf("create lesson %d of course %d: %w", j+1, i+1, err)
			}
			monitoring.DocumentsInserted.WithLabelValues(repository.CollectionLessons).Inc()

			course.Content = append(course.Content, model.CourseLesson{
				LessonID: lesson.ID,
				Content:  lesson.Body,
			})
		}

		if err := s.Throttle.Wait(ctx); err != nil {
			return i, err
		}
		if err := s.CourseRepo.Create(ctx, course); err != nil {
			return i, fmt.Errorf("create course %d: %w", i+1, err)
		}
		monitoring.DocumentsInserted.WithLabelValues(repository.CollectionCourses).Inc()

		logger.Log.Debug("course generated",
			zap.String("courseId", course.ID.Hex()),
			zap.Int("lessons", course.LessonCount()),
		)
	}

	return s.cfg.Courses, nil
}
