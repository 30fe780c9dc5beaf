package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttemptAnswer is one graded answer inside a QuizAttempt. Answer keeps the
// submitted value as-is (string for choice/text types, []string for
// multiple-select).
type AttemptAnswer struct {
	QuestionID primitive.ObjectID `bson:"question_id" json:"question_id"`
	Answer     interface{}        `bson:"answer,omitempty" json:"answer,omitempty"`
	IsCorrect  bool               `bson:"is_correct" json:"is_correct"`
}

// QuizAttempt is immutable once appended. AttemptNumber is 1-based and
// strictly sequential per (user, quiz); attempts are never renumbered or
// deleted.
type QuizAttempt struct {
	QuizID        primitive.ObjectID `bson:"quiz_id" json:"quiz_id"`
	AttemptNumber int                `bson:"attempt_number" json:"attempt_number"`
	Score         int                `bson:"score" json:"score"`
	MaxScore      int                `bson:"max_score" json:"max_score"`
	Answers       []AttemptAnswer    `bson:"answers" json:"answers"`
	CompletedAt   time.Time          `bson:"completed_at" json:"completed_at"`
	TimeSpent     int                `bson:"time_spent" json:"time_spent"`
}

type EnrollmentProgress struct {
	Percentage       float64              `bson:"percentage" json:"percentage"`
	CompletedLessons []primitive.ObjectID `bson:"completed_lessons" json:"completed_lessons"`
	CurrentLesson    *primitive.ObjectID  `bson:"current_lesson,omitempty" json:"current_lesson,omitempty"`
	LastAccessedAt   *time.Time           `bson:"last_accessed_at,omitempty" json:"last_accessed_at,omitempty"`
	TimeSpent        int                  `bson:"time_spent" json:"time_spent"`
}

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentExpired   = "expired"
	EnrollmentRefunded  = "refunded"
)

// Enrollment ties a learner to a course and owns the authoritative attempt
// history. A unique (user, course) index guarantees one document per pair.
type Enrollment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user" json:"user_id"`
	CourseID     primitive.ObjectID `bson:"course" json:"course_id"`
	EnrolledAt   time.Time          `bson:"enrolled_at" json:"enrolled_at"`
	CompletedAt  *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	Progress     EnrollmentProgress `bson:"progress" json:"progress"`
	QuizAttempts []QuizAttempt      `bson:"quiz_attempts" json:"quiz_attempts"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// AttemptsForQuiz returns this learner's attempts on one quiz, in append
// order.
func (e *Enrollment) AttemptsForQuiz(quizID primitive.ObjectID) []QuizAttempt {
	var attempts []QuizAttempt
	for _, a := range e.QuizAttempts {
		if a.QuizID == quizID {
			attempts = append(attempts, a)
		}
	}
	return attempts
}
