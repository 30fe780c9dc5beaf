package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Streak tracks daily learning activity. Current resets to 1 (not 0) when
// resumed after a gap; Longest never drops below Current.
type Streak struct {
	Current          int        `bson:"current" json:"current"`
	Longest          int        `bson:"longest" json:"longest"`
	LastActivityDate *time.Time `bson:"last_activity_date,omitempty" json:"last_activity_date,omitempty"`
}

type EarnedBadge struct {
	BadgeID  primitive.ObjectID `bson:"badge_id" json:"badge_id"`
	EarnedAt time.Time          `bson:"earned_at" json:"earned_at"`
}

// Gamification points are monotonically non-decreasing; only passing graded
// events add to them.
type Gamification struct {
	Points int           `bson:"points" json:"points"`
	Level  int           `bson:"level" json:"level"`
	Badges []EarnedBadge `bson:"badges" json:"badges"`
	Streak Streak        `bson:"streak" json:"streak"`
}

type UserProfile struct {
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	Avatar    string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// User is the slice of the user document this service reads and writes.
// Identity fields are owned by the auth service.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Profile      UserProfile        `bson:"profile" json:"profile"`
	Role         string             `bson:"role" json:"role"`
	Gamification Gamification       `bson:"gamification" json:"gamification"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
}
