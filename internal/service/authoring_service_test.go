package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"quiz-engine-service/internal/apierr"
	"quiz-engine-service/internal/grading"
	"quiz-engine-service/internal/models"
)

const authoringPayload = `{
	"course_id": "507f1f77bcf86cd799439011",
	"title": "capitals",
	"settings": {"passing_score": 60},
	"questions": [
		{
			"type": "multiple-choice",
			"question": "capital of France?",
			"options": [
				{"text": "Paris", "is_correct": true},
				{"text": "Lyon"}
			],
			"points": 10
		},
		{
			"type": "short-answer",
			"question": "capital of Italy?",
			"correct_answer": "Rome",
			"points": 10
		}
	]
}`

// Answer keys arrive on authoring-only fields (is_correct, correct_answer)
// and must survive binding and mapping into the stored quiz: a quiz created
// through the API has to be gradeable.
func TestCreateQuizKeepsAnswerKeys(t *testing.T) {
	var in CreateQuizInput
	if err := json.Unmarshal([]byte(authoringPayload), &in); err != nil {
		t.Fatalf("bind authoring payload: %v", err)
	}

	e := newEnv(t, 0, 0)
	quiz, err := e.svc.CreateQuiz(context.Background(), in)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}
	choice, short := quiz.Questions[0], quiz.Questions[1]

	if !choice.Options[0].IsCorrect || choice.Options[1].IsCorrect {
		t.Errorf("correct-option flags lost in authoring: %+v", choice.Options)
	}
	if short.CorrectAnswer != "Rome" {
		t.Errorf("reference answer lost in authoring: %q", short.CorrectAnswer)
	}
	for _, q := range quiz.Questions {
		if q.ID.IsZero() {
			t.Error("question stored without an id")
		}
		for _, o := range q.Options {
			if o.ID.IsZero() {
				t.Error("option stored without an id")
			}
		}
	}

	// The stored pool must grade a fully correct submission at full marks.
	res := grading.Grade(quiz.Questions, []grading.SubmittedAnswer{
		{QuestionID: choice.ID.Hex(), Answer: choice.Options[0].ID.Hex()},
		{QuestionID: short.ID.Hex(), Answer: "rome"},
	}, quiz.Settings.PassingScore)
	if res.Score != 20 || !res.Passed {
		t.Errorf("authored quiz not gradeable: score %d/%d passed=%v", res.Score, res.MaxScore, res.Passed)
	}
}

func TestCreateQuizDefaults(t *testing.T) {
	e := newEnv(t, 0, 0)

	quiz, err := e.svc.CreateQuiz(context.Background(), CreateQuizInput{
		CourseID: e.quiz.CourseID.Hex(),
		Title:    "defaults",
		Questions: []QuestionInput{
			{Type: models.QuestionShortAnswer, Question: "q", CorrectAnswer: "a"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if quiz.Settings.PassingScore != 70 {
		t.Errorf("expected default passing score 70, got %d", quiz.Settings.PassingScore)
	}
	if quiz.Type != "practice" {
		t.Errorf("expected default type practice, got %q", quiz.Type)
	}
	if !quiz.IsActive {
		t.Error("expected created quiz active")
	}
	if quiz.Questions[0].Points != models.DefaultQuestionPoints {
		t.Errorf("expected default points, got %d", quiz.Questions[0].Points)
	}
	if quiz.Questions[0].Order != 0 {
		t.Errorf("expected order assigned, got %d", quiz.Questions[0].Order)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	e := newEnv(t, 0, 0)

	testCases := []struct {
		name  string
		input CreateQuizInput
	}{
		{"bad course id", CreateQuizInput{CourseID: "nope", Title: "t"}},
		{"missing title", CreateQuizInput{CourseID: e.quiz.CourseID.Hex()}},
		{"passing score out of range", CreateQuizInput{
			CourseID: e.quiz.CourseID.Hex(),
			Title:    "t",
			Settings: models.QuizSettings{PassingScore: 150},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.svc.CreateQuiz(context.Background(), tc.input)
			var apiErr *apierr.Error
			if !errors.As(err, &apiErr) || apiErr.Code != "VALIDATION_ERROR" {
				t.Errorf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

// A partial update replacing the question pool goes through the same
// authoring mapping, so answer keys and fresh identities are preserved there
// too.
func TestUpdateQuizRebindsQuestions(t *testing.T) {
	e := newEnv(t, 1, 0)

	update := bson.M{
		"title": "renamed",
		"stats": bson.M{"total_attempts": 999},
		"questions": []interface{}{
			map[string]interface{}{
				"type":     models.QuestionMultipleChoice,
				"question": "updated",
				"options": []interface{}{
					map[string]interface{}{"text": "yes", "is_correct": true},
					map[string]interface{}{"text": "no"},
				},
			},
		},
	}
	if _, err := e.svc.UpdateQuiz(context.Background(), e.quiz.ID.Hex(), update); err != nil {
		t.Fatal(err)
	}

	if len(e.quizzes.updates) != 1 {
		t.Fatalf("expected 1 stored update, got %d", len(e.quizzes.updates))
	}
	stored := e.quizzes.updates[0]

	if _, ok := stored["stats"]; ok {
		t.Error("engine-owned stats must be stripped from authoring updates")
	}
	questions, ok := stored["questions"].([]models.Question)
	if !ok {
		t.Fatalf("questions not rebound to model types: %T", stored["questions"])
	}
	if !questions[0].Options[0].IsCorrect {
		t.Error("correct-option flag lost in question update")
	}
	if questions[0].ID.IsZero() {
		t.Error("updated question stored without an id")
	}
}
