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

type QuizRepository struct {
	Col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{Col: db.Collection("quizzes")}
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var quiz models.Quiz
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByLesson(ctx context.Context, lessonID string) (*models.Quiz, error) {
	objID, err := primitive.ObjectIDFromHex(lessonID)
	if err != nil {
		return nil, ErrNotFound
	}
	var quiz models.Quiz
	err = r.Col.FindOne(ctx, bson.M{"lesson": objID, "is_active": true}).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	now := time.Now()
	quiz.ID = primitive.NewObjectID()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	_, err := r.Col.InsertOne(ctx, quiz)
	return err
}

func (r *QuizRepository) Update(ctx context.Context, id string, update bson.M) (*models.Quiz, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	update["updated_at"] = time.Now()

	var quiz models.Quiz
	err = r.Col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ApplyAttemptStats folds one graded attempt into the quiz's running stats
// with a single aggregation-pipeline update. The whole recurrence
//
//	newAvg = (oldAvg*oldTotal + percentage) / (oldTotal+1)
//
// evaluates server-side against the pre-update document, so concurrent
// submissions each count exactly once.
func (r *QuizRepository) ApplyAttemptStats(ctx context.Context, id string, percentage int, passed bool) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	passValue := 0.0
	if passed {
		passValue = 100.0
	}
	newTotal := bson.D{{Key: "$add", Value: bson.A{"$stats.total_attempts", 1}}}

	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "stats.total_attempts", Value: newTotal},
			{Key: "stats.average_score", Value: bson.D{{Key: "$divide", Value: bson.A{
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$multiply", Value: bson.A{"$stats.average_score", "$stats.total_attempts"}}},
					float64(percentage),
				}}},
				newTotal,
			}}}},
			{Key: "stats.pass_rate", Value: bson.D{{Key: "$divide", Value: bson.A{
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$multiply", Value: bson.A{"$stats.pass_rate", "$stats.total_attempts"}}},
					passValue,
				}}},
				newTotal,
			}}}},
			{Key: "updated_at", Value: "$$NOW"},
		}}},
	}

	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
