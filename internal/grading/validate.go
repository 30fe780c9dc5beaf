package grading

import (
	"fmt"

	"quiz-engine-service/internal/models"
)

// FieldError describes one malformed answer in a submission.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateAnswers checks the submission's shape against the graded
// questions before any grading happens. A submission with any malformed
// answer is rejected whole; answers for questions outside the graded set are
// ignored, matching the grader.
func ValidateAnswers(questions []models.Question, answers []SubmittedAnswer) []FieldError {
	byID := make(map[string]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID.Hex()] = &questions[i]
	}

	var errs []FieldError
	for i, a := range answers {
		field := fmt.Sprintf("answers[%d]", i)
		if a.QuestionID == "" {
			errs = append(errs, FieldError{Field: field + ".question_id", Message: "question_id is required"})
			continue
		}
		q, graded := byID[a.QuestionID]
		if !graded {
			continue
		}
		if a.Answer == nil {
			errs = append(errs, FieldError{Field: field + ".answer", Message: "answer is required"})
			continue
		}
		switch q.Type {
		case models.QuestionMultipleSelect:
			if _, ok := asStringSlice(a.Answer); !ok {
				errs = append(errs, FieldError{Field: field + ".answer", Message: "answer must be a list of option ids"})
			}
		case models.QuestionMultipleChoice, models.QuestionTrueFalse:
			if _, ok := asString(a.Answer); !ok {
				errs = append(errs, FieldError{Field: field + ".answer", Message: "answer must be an option id"})
			}
		case models.QuestionFillBlank, models.QuestionShortAnswer:
			if _, ok := asString(a.Answer); !ok {
				errs = append(errs, FieldError{Field: field + ".answer", Message: "answer must be text"})
			}
		}
	}
	return errs
}
