package repository

import (
	"context"
	"course_seeder/internal/model"
	"course_seeder/internal/util"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:       &MongoUserRepository{Coll: db.Collection(CollectionUsers)},
		Courses:     &MongoCourseRepository{Coll: db.Collection(CollectionCourses)},
		Lessons:     &MongoLessonRepository{Coll: db.Collection(CollectionLessons)},
		Enrollments: &MongoEnrollmentRepository{Coll: db.Collection(CollectionEnrollments)},
		Scores:      &MongoScoreRepository{Coll: db.Collection(CollectionScores)},
	}
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc any) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert into %s: %w", coll.Name(), err)
	}
	return nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any) ([]T, error) {
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", coll.Name(), err)
	}

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

type MongoUserRepository struct {
	Coll *mongo.Collection
}

func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "emailAddress", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	return insertOne(ctx, r.Coll, user)
}

func (r *MongoUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	return findAll[model.User](ctx, r.Coll, bson.M{})
}

func (r *MongoUserRepository) Count(ctx context.Context) (int64, error) {
	return r.Coll.CountDocuments(ctx, bson.M{})
}

type MongoCourseRepository struct {
	Coll *mongo.Collection
}

func (r *MongoCourseRepository) Create(ctx context.Context, course *model.Course) error {
	return insertOne(ctx, r.Coll, course)
}

func (r *MongoCourseRepository) FindAll(ctx context.Context) ([]model.Course, error) {
	return findAll[model.Course](ctx, r.Coll, bson.M{})
}

func (r *MongoCourseRepository) Count(ctx context.Context) (int64, error) {
	return r.Coll.CountDocuments(ctx, bson.M{})
}

type MongoLessonRepository struct {
	Coll *mongo.Collection
}

func (r *MongoLessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	return insertOne(ctx, r.Coll, lesson)
}

func (r *MongoLessonRepository) Count(ctx context.Context) (int64, error) {
	return r.Coll.CountDocuments(ctx, bson.M{})
}

type MongoEnrollmentRepository struct {
	Coll *mongo.Collection
}

func (r *MongoEnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return insertOne(ctx, r.Coll, enrollment)
}

func (r *MongoEnrollmentRepository) FindByUserID(ctx context.Context, userID bson.ObjectID) ([]model.Enrollment, error) {
	return findAll[model.Enrollment](ctx, r.Coll, bson.M{"userId": userID})
}

func (r *MongoEnrollmentRepository) Count(ctx context.Context) (int64, error) {
	return r.Coll.CountDocuments(ctx, bson.M{})
}

type MongoScoreRepository struct {
	Coll *mongo.Collection
}

func (r *MongoScoreRepository) Create(ctx context.Context, score *model.Score) error {
	return insertOne(ctx, r.Coll, score)
}

func (r *MongoScoreRepository) FindByUserID(ctx context.Context, userID bson.ObjectID) (*model.Score, error) {
	var score model.Score
	err := r.Coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&score)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.ErrScoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *MongoScoreRepository) ReplaceHistory(ctx context.Context, userID bson.ObjectID, history []model.ScoreEvent, totalPoints int) (*model.Score, error) {
	update := bson.M{
		"$set": bson.M{
			"history":     history,
			"totalPoints": totalPoints,
			"updatedAt":   time.Now(),
		},
	}

	var previous model.Score
	err := r.Coll.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update).Decode(&previous)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.ErrScoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update score of user %s: %w", userID.Hex(), err)
	}
	return &previous, nil
}

func (r *MongoScoreRepository) Count(ctx context.Context) (int64, error) {
	return r.Coll.CountDocuments(ctx, bson.M{})
}
