package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quiz-engine-service/internal/models"
)

type EnrollmentRepository struct {
	Col *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{Col: db.Collection("enrollments")}
}

// EnsureIndexes creates the unique (user, course) compound index the
// one-enrollment-per-pair invariant rests on.
func (r *EnrollmentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "course", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *EnrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	userObj, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	courseObj, err := primitive.ObjectIDFromHex(courseID)
	if err != nil {
		return nil, ErrNotFound
	}
	var enrollment models.Enrollment
	err = r.Col.FindOne(ctx, bson.M{"user": userObj, "course": courseObj}).Decode(&enrollment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	now := time.Now()
	enrollment.ID = primitive.NewObjectID()
	enrollment.EnrolledAt = now
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentActive
	}
	if enrollment.QuizAttempts == nil {
		enrollment.QuizAttempts = []models.QuizAttempt{}
	}
	_, err := r.Col.InsertOne(ctx, enrollment)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEnrollment
	}
	return err
}

// AppendAttempt pushes one immutable attempt record, but only if the number
// of attempts already stored for this quiz still equals expectedPrior. Two
// concurrent submissions that both read the same prior count can therefore
// never both append: the loser gets ErrAttemptConflict and must recount.
func (r *EnrollmentRepository) AppendAttempt(ctx context.Context, enrollmentID primitive.ObjectID, attempt models.QuizAttempt, expectedPrior int) error {
	filter := bson.M{
		"_id": enrollmentID,
		"$expr": bson.M{
			"$eq": bson.A{
				bson.M{"$size": bson.M{"$filter": bson.M{
					"input": "$quiz_attempts",
					"as":    "a",
					"cond":  bson.M{"$eq": bson.A{"$$a.quiz_id", attempt.QuizID}},
				}}},
				expectedPrior,
			},
		},
	}
	update := bson.M{
		"$push": bson.M{"quiz_attempts": attempt},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	res, err := r.Col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAttemptConflict
	}
	return nil
}
