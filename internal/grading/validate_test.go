package grading

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quiz-engine-service/internal/models"
)

func TestValidateAnswers(t *testing.T) {
	choice := choiceQuestion(10)
	multi := models.Question{
		ID:   primitive.NewObjectID(),
		Type: models.QuestionMultipleSelect,
		Options: []models.Option{
			{ID: primitive.NewObjectID(), IsCorrect: true},
			{ID: primitive.NewObjectID()},
		},
		Points: 10,
	}
	text := models.Question{
		ID:            primitive.NewObjectID(),
		Type:          models.QuestionFillBlank,
		CorrectAnswer: "go",
		Points:        10,
	}
	questions := []models.Question{choice, multi, text}

	testCases := []struct {
		name       string
		answers    []SubmittedAnswer
		wantErrors int
	}{
		{
			"well-formed submission",
			[]SubmittedAnswer{
				{QuestionID: choice.ID.Hex(), Answer: choice.Options[0].ID.Hex()},
				{QuestionID: multi.ID.Hex(), Answer: []string{multi.Options[0].ID.Hex()}},
				{QuestionID: text.ID.Hex(), Answer: "go"},
			},
			0,
		},
		{
			"missing question id",
			[]SubmittedAnswer{{QuestionID: "", Answer: "x"}},
			1,
		},
		{
			"nil answer",
			[]SubmittedAnswer{{QuestionID: choice.ID.Hex(), Answer: nil}},
			1,
		},
		{
			"list where option id expected",
			[]SubmittedAnswer{{QuestionID: choice.ID.Hex(), Answer: []string{"a"}}},
			1,
		},
		{
			"scalar where list expected",
			[]SubmittedAnswer{{QuestionID: multi.ID.Hex(), Answer: multi.Options[0].ID.Hex()}},
			1,
		},
		{
			"number where text expected",
			[]SubmittedAnswer{{QuestionID: text.ID.Hex(), Answer: 3.14}},
			1,
		},
		{
			"answer for question outside graded set is ignored",
			[]SubmittedAnswer{{QuestionID: primitive.NewObjectID().Hex(), Answer: 99}},
			0,
		},
		{
			"multiple malformed answers all reported",
			[]SubmittedAnswer{
				{QuestionID: choice.ID.Hex(), Answer: nil},
				{QuestionID: multi.ID.Hex(), Answer: "not-a-list"},
			},
			2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateAnswers(questions, tc.answers)
			if len(errs) != tc.wantErrors {
				t.Errorf("expected %d field errors, got %d: %v", tc.wantErrors, len(errs), errs)
			}
		})
	}
}
