// Package grading scores one submission against the authoritative answer
// keys. It is pure: no persistence, no randomness, deterministic output.
package grading

import (
	"math"
	"sort"
	"strings"

	"quiz-engine-service/internal/models"
)

// SubmittedAnswer is one client answer. Answer is a string (option id or
// free text) or a list of option ids for multiple-select.
type SubmittedAnswer struct {
	QuestionID string      `json:"question_id" binding:"required"`
	Answer     interface{} `json:"answer"`
}

// Result is the graded outcome for one submission.
type Result struct {
	Score      int
	MaxScore   int
	Percentage int
	Passed     bool
	Answers    []models.AttemptAnswer
}

// Grade scores the submission against exactly the given questions. Every
// graded question contributes its points to MaxScore whether or not it was
// answered; an empty graded set yields percentage 0 and not passed.
func Grade(questions []models.Question, answers []SubmittedAnswer, passingScore int) *Result {
	byQuestion := make(map[string]SubmittedAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	res := &Result{Answers: make([]models.AttemptAnswer, 0, len(questions))}

	for i := range questions {
		q := &questions[i]
		res.MaxScore += q.PointsOrDefault()

		submitted, answered := byQuestion[q.ID.Hex()]

		correct := false
		if answered {
			correct = gradeOne(q, submitted.Answer)
			if correct {
				res.Score += q.PointsOrDefault()
			}
		}

		var raw interface{}
		if answered {
			raw = submitted.Answer
		}
		res.Answers = append(res.Answers, models.AttemptAnswer{
			QuestionID: q.ID,
			Answer:     raw,
			IsCorrect:  correct,
		})
	}

	if res.MaxScore > 0 {
		res.Percentage = int(math.Round(float64(res.Score) / float64(res.MaxScore) * 100))
		res.Passed = res.Percentage >= passingScore
	}

	return res
}

// gradeOne applies the type-specific comparison rule. Unrecognized types
// fail closed.
func gradeOne(q *models.Question, answer interface{}) bool {
	switch q.Type {
	case models.QuestionMultipleChoice, models.QuestionTrueFalse:
		submitted, ok := asString(answer)
		if !ok {
			return false
		}
		for _, o := range q.Options {
			if o.IsCorrect {
				return o.ID.Hex() == submitted
			}
		}
		return false

	case models.QuestionMultipleSelect:
		submitted, ok := asStringSlice(answer)
		if !ok {
			return false
		}
		var correct []string
		for _, o := range q.Options {
			if o.IsCorrect {
				correct = append(correct, o.ID.Hex())
			}
		}
		return sameSet(correct, submitted)

	case models.QuestionFillBlank, models.QuestionShortAnswer:
		submitted, ok := asString(answer)
		if !ok {
			return false
		}
		want := strings.ToLower(strings.TrimSpace(q.CorrectAnswer))
		got := strings.ToLower(strings.TrimSpace(submitted))
		return want != "" && want == got

	default:
		return false
	}
}

// sameSet compares two id lists as sets: order-independent, exact match
// only. Partial overlap never counts.
func sameSet(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asStringSlice accepts both []string and the []interface{} that JSON
// decoding produces.
func asStringSlice(v interface{}) ([]string, bool) {
	switch vv := v.(type) {
	case []string:
		return vv, true
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
