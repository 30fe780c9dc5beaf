package models

import (
	"encoding/json"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The answer key must never survive JSON marshaling, no matter which layer
// serializes a quiz.
func TestAnswerKeyNotSerialized(t *testing.T) {
	quiz := Quiz{
		ID:       primitive.NewObjectID(),
		CourseID: primitive.NewObjectID(),
		Title:    "sanitization",
		Questions: []Question{
			{
				ID:            primitive.NewObjectID(),
				Type:          QuestionMultipleChoice,
				Question:      "pick one",
				CorrectAnswer: "the-secret-reference-answer",
				Options: []Option{
					{ID: primitive.NewObjectID(), Text: "right", IsCorrect: true},
					{ID: primitive.NewObjectID(), Text: "wrong"},
				},
			},
		},
	}

	data, err := json.Marshal(quiz)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)

	if strings.Contains(body, "is_correct") || strings.Contains(body, "IsCorrect") {
		t.Error("serialized quiz leaks option correctness flags")
	}
	if strings.Contains(body, "the-secret-reference-answer") {
		t.Error("serialized quiz leaks the reference answer text")
	}
}

func TestAttemptsForQuiz(t *testing.T) {
	quizA := primitive.NewObjectID()
	quizB := primitive.NewObjectID()
	e := Enrollment{
		QuizAttempts: []QuizAttempt{
			{QuizID: quizA, AttemptNumber: 1},
			{QuizID: quizB, AttemptNumber: 1},
			{QuizID: quizA, AttemptNumber: 2},
		},
	}

	attempts := e.AttemptsForQuiz(quizA)
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].AttemptNumber != 1 || attempts[1].AttemptNumber != 2 {
		t.Error("attempts not returned in append order")
	}
}

func TestPointsOrDefault(t *testing.T) {
	q := Question{}
	if q.PointsOrDefault() != DefaultQuestionPoints {
		t.Errorf("expected default %d, got %d", DefaultQuestionPoints, q.PointsOrDefault())
	}
	q.Points = 25
	if q.PointsOrDefault() != 25 {
		t.Errorf("expected 25, got %d", q.PointsOrDefault())
	}
}
