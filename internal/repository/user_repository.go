package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"quiz-engine-service/internal/models"
)

type UserRepository struct {
	Col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Col: db.Collection("users")}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var user models.User
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AwardPoints adds to the monotonically increasing points counter. $inc
// keeps concurrent awards from losing each other.
func (r *UserRepository) AwardPoints(ctx context.Context, id string, points int) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$inc": bson.M{"gamification.points": points},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStreak writes the recomputed streak, guarded against concurrent
// modification: the filter asserts last_activity_date is still what the
// caller read. prevLastActivity of nil matches a user with no prior streak
// activity.
func (r *UserRepository) UpdateStreak(ctx context.Context, id string, streak models.Streak, prevLastActivity *time.Time) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	filter := bson.M{"_id": objID}
	if prevLastActivity != nil {
		filter["gamification.streak.last_activity_date"] = *prevLastActivity
	} else {
		filter["gamification.streak.last_activity_date"] = bson.M{"$exists": false}
	}

	res, err := r.Col.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"gamification.streak.current":            streak.Current,
			"gamification.streak.longest":            streak.Longest,
			"gamification.streak.last_activity_date": streak.LastActivityDate,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStaleStreak
	}
	return nil
}
