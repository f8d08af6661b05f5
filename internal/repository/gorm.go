package repository

import (
	"context"
	"course_seeder/internal/model"
	"course_seeder/internal/util"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Relational rows mirror the documents. Ids keep the ObjectID hex form and
// embedded lists are stored as JSON columns.

type userRow struct {
	ID           string `gorm:"primaryKey;size:24"`
	EmailAddress string `gorm:"size:191;not null;uniqueIndex:idx_users_email_address"`
	Name         string `gorm:"size:255"`
	PasswordHash string `gorm:"size:100"`
	CreatedAt    time.Time
}

func (userRow) TableName() string {
	return CollectionUsers
}

type courseRow struct {
	ID          string `gorm:"primaryKey;size:24"`
	IsPublished bool
	Title       string `gorm:"size:255"`
	URL         string `gorm:"size:255"`
	Content     datatypes.JSONSlice[model.CourseLesson]
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (courseRow) TableName() string {
	return CollectionCourses
}

type lessonRow struct {
	ID          string `gorm:"primaryKey;size:24"`
	IsPublished bool
	Title       string `gorm:"size:255"`
	URL         string `gorm:"size:255"`
	Body        string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (lessonRow) TableName() string {
	return CollectionLessons
}

type enrollmentRow struct {
	ID                string  `gorm:"primaryKey;size:24"`
	Seq               uint64  `gorm:"index"`
	UserID            string  `gorm:"size:24;index"`
	CourseID          string  `gorm:"size:24;index"`
	LastVisitedLesson *string `gorm:"size:24"`
	CompletedLessons  datatypes.JSONSlice[model.CompletedLesson]
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (enrollmentRow) TableName() string {
	return "course_enrollments"
}

type scoreRow struct {
	ID          string `gorm:"primaryKey;size:24"`
	UserID      string `gorm:"size:24;uniqueIndex"`
	TotalPoints int
	History     datatypes.JSONSlice[model.ScoreEvent]
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (scoreRow) TableName() string {
	return CollectionScores
}

// GormModels is passed to AutoMigrate.
func GormModels() []any {
	return []any{&userRow{}, &courseRow{}, &lessonRow{}, &enrollmentRow{}, &scoreRow{}}
}

func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:       &GormUserRepository{DB: db},
		Courses:     &GormCourseRepository{DB: db},
		Lessons:     &GormLessonRepository{DB: db},
		Enrollments: &GormEnrollmentRepository{DB: db},
		Scores:      &GormScoreRepository{DB: db},
	}
}

func parseID(hex string) bson.ObjectID {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.NilObjectID
	}
	return id
}

func count(ctx context.Context, db *gorm.DB, row any) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(row).Count(&n).Error
	return n, err
}

type GormUserRepository struct {
	DB *gorm.DB
}

func (r *GormUserRepository) EnsureIndexes(ctx context.Context) error {
	migrator := r.DB.WithContext(ctx).Migrator()
	if migrator.HasIndex(&userRow{}, "idx_users_email_address") {
		return nil
	}
	return migrator.CreateIndex(&userRow{}, "idx_users_email_address")
}

func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	row := &userRow{
		ID:           user.ID.Hex(),
		EmailAddress: user.EmailAddress,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
	if err := r.DB.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert into %s: %w", CollectionUsers, err)
	}
	return nil
}

func (r *GormUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	var rows []userRow
	if err := r.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	users := make([]model.User, len(rows))
	for i, row := range rows {
		users[i] = model.User{
			ID:           parseID(row.ID),
			EmailAddress: row.EmailAddress,
			Name:         row.Name,
			PasswordHash: row.PasswordHash,
			CreatedAt:    row.CreatedAt,
		}
	}
	return users, nil
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.DB, &userRow{})
}

type GormCourseRepository struct {
	DB *gorm.DB
}

func (r *GormCourseRepository) Create(ctx context.Context, course *model.Course) error {
	row := &courseRow{
		ID:          course.ID.Hex(),
		IsPublished: course.IsPublished,
		Title:       course.Title,
		URL:         course.URL,
		Content:     course.Content,
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
	if err := r.DB.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert into %s: %w", CollectionCourses, err)
	}
	return nil
}

func (r *GormCourseRepository) FindAll(ctx context.Context) ([]model.Course, error) {
	var rows []courseRow
	if err := r.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	courses := make([]model.Course, len(rows))
	for i, row := range rows {
		courses[i] = model.Course{
			ID:          parseID(row.ID),
			IsPublished: row.IsPublished,
			Title:       row.Title,
			URL:         row.URL,
			Content:     row.Content,
			Timestamps:  model.Timestamps{CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt},
		}
	}
	return courses, nil
}

func (r *GormCourseRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.DB, &courseRow{})
}

type GormLessonRepository struct {
	DB *gorm.DB
}

func (r *GormLessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	row := &lessonRow{
		ID:          lesson.ID.Hex(),
		IsPublished: lesson.IsPublished,
		Title:       lesson.Title,
		URL:         lesson.URL,
		Body:        lesson.Body,
		CreatedAt:   lesson.CreatedAt,
		UpdatedAt:   lesson.UpdatedAt,
	}
	if err := r.DB.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert into %s: %w", CollectionLessons, err)
	}
	return nil
}

func (r *GormLessonRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.DB, &lessonRow{})
}

type GormEnrollmentRepository struct {
	DB *gorm.DB
}

func (r *GormEnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	row := &enrollmentRow{
		ID:               enrollment.ID.Hex(),
		Seq:              uint64(time.Now().UnixNano()),
		UserID:           enrollment.UserID.Hex(),
		CourseID:         enrollment.CourseID.Hex(),
		CompletedLessons: enrollment.CompletedLessons,
		CreatedAt:        enrollment.CreatedAt,
		UpdatedAt:        enrollment.UpdatedAt,
	}
	if enrollment.LastVisitedLesson != nil {
		hex := enrollment.LastVisitedLesson.Hex()
		row.LastVisitedLesson = &hex
	}
	if err := r.DB.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert into %s: %w", CollectionEnrollments, err)
	}
	return nil
}

// FindByUserID returns enrollments in insertion order.
func (r *GormEnrollmentRepository) FindByUserID(ctx context.Context, userID bson.ObjectID) ([]model.Enrollment, error) {
	var rows []enrollmentRow
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID.Hex()).
		Order("seq").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	enrollments := make([]model.Enrollment, len(rows))
	for i, row := range rows {
		e := model.Enrollment{
			ID:               parseID(row.ID),
			UserID:           parseID(row.UserID),
			CourseID:         parseID(row.CourseID),
			CompletedLessons: row.CompletedLessons,
			Timestamps:       model.Timestamps{CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt},
		}
		if e.CompletedLessons == nil {
			e.CompletedLessons = []model.CompletedLesson{}
		}
		if row.LastVisitedLesson != nil {
			lessonID := parseID(*row.LastVisitedLesson)
			e.LastVisitedLesson = &lessonID
		}
		e.LastCompletedLesson = e.LastCompleted()
		enrollments[i] = e
	}
	return enrollments, nil
}

func (r *GormEnrollmentRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.DB, &enrollmentRow{})
}

type GormScoreRepository struct {
	DB *gorm.DB
}

func toScore(row *scoreRow) *model.Score {
	history := []model.ScoreEvent(row.History)
	if history == nil {
		history = []model.ScoreEvent{}
	}
	return &model.Score{
		ID:          parseID(row.ID),
		UserID:      parseID(row.UserID),
		TotalPoints: row.TotalPoints,
		History:     history,
		Timestamps:  model.Timestamps{CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt},
	}
}

func (r *GormScoreRepository) Create(ctx context.Context, score *model.Score) error {
	row := &scoreRow{
		ID:          score.ID.Hex(),
		UserID:      score.UserID.Hex(),
		TotalPoints: score.TotalPoints,
		History:     score.History,
		CreatedAt:   score.CreatedAt,
		UpdatedAt:   score.UpdatedAt,
	}
	if err := r.DB.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert into %s: %w", CollectionScores, err)
	}
	return nil
}

func (r *GormScoreRepository) FindByUserID(ctx context.Context, userID bson.ObjectID) (*model.Score, error) {
	var row scoreRow
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID.Hex()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrScoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return toScore(&row), nil
}

func (r *GormScoreRepository) ReplaceHistory(ctx context.Context, userID bson.ObjectID, history []model.ScoreEvent, totalPoints int) (*model.Score, error) {
	var previous scoreRow
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID.Hex()).First(&previous).Error; err != nil {
			return err
		}
		return tx.Model(&scoreRow{}).
			Where("id = ?", previous.ID).
			Updates(map[string]any{
				"history":      datatypes.JSONSlice[model.ScoreEvent](history),
				"total_points": totalPoints,
				"updated_at":   time.Now(),
			}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrScoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update score of user %s: %w", userID.Hex(), err)
	}
	return toScore(&previous), nil
}

func (r *GormScoreRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.DB, &scoreRow{})
}
