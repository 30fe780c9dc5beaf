package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question types supported by the automatic grader. Richer types (matching,
// ordering) may exist in authored pools but always grade as incorrect.
const (
	QuestionMultipleChoice = "multiple-choice"
	QuestionMultipleSelect = "multiple-select"
	QuestionTrueFalse      = "true-false"
	QuestionFillBlank      = "fill-blank"
	QuestionShortAnswer    = "short-answer"
	QuestionMatching       = "matching"
	QuestionOrdering       = "ordering"
)

const DefaultQuestionPoints = 10

type Media struct {
	Type string `bson:"type,omitempty" json:"type,omitempty"`
	URL  string `bson:"url,omitempty" json:"url,omitempty"`
}

// Option is one answer choice. IsCorrect is the answer key and must never be
// serialized to the client-facing layer.
type Option struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Text      string             `bson:"text" json:"text"`
	IsCorrect bool               `bson:"is_correct" json:"-"`
	Media     *Media             `bson:"media,omitempty" json:"media,omitempty"`
}

type Question struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Type          string             `bson:"type" json:"type"`
	Question      string             `bson:"question" json:"question"`
	QuestionMedia *Media             `bson:"question_media,omitempty" json:"question_media,omitempty"`
	Options       []Option           `bson:"options,omitempty" json:"options,omitempty"`
	// CorrectAnswer is the reference text for fill-blank / short-answer.
	CorrectAnswer string   `bson:"correct_answer,omitempty" json:"-"`
	Explanation   string   `bson:"explanation,omitempty" json:"explanation,omitempty"`
	Points        int      `bson:"points" json:"points"`
	Difficulty    string   `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Tags          []string `bson:"tags,omitempty" json:"tags,omitempty"`
	Order         int      `bson:"order" json:"order"`
}

// PointsOrDefault guards against unauthored point values.
func (q *Question) PointsOrDefault() int {
	if q.Points <= 0 {
		return DefaultQuestionPoints
	}
	return q.Points
}

type QuizSettings struct {
	// TimeLimit in seconds, 0 = none.
	TimeLimit int `bson:"time_limit,omitempty" json:"time_limit,omitempty"`
	// PassingScore is a percentage 0-100.
	PassingScore int `bson:"passing_score" json:"passing_score"`
	// MaxAttempts of 0 means unlimited.
	MaxAttempts        int  `bson:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	ShuffleQuestions   bool `bson:"shuffle_questions" json:"shuffle_questions"`
	ShuffleAnswers     bool `bson:"shuffle_answers" json:"shuffle_answers"`
	ShowCorrectAnswers bool `bson:"show_correct_answers" json:"show_correct_answers"`
	ShowExplanations   bool `bson:"show_explanations" json:"show_explanations"`
}

// QuizStats are running aggregates maintained as exact incremental means.
type QuizStats struct {
	TotalAttempts int     `bson:"total_attempts" json:"total_attempts"`
	AverageScore  float64 `bson:"average_score" json:"average_score"`
	PassRate      float64 `bson:"pass_rate" json:"pass_rate"`
}

type Quiz struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CourseID    primitive.ObjectID  `bson:"course" json:"course_id"`
	ModuleID    *primitive.ObjectID `bson:"module,omitempty" json:"module_id,omitempty"`
	LessonID    *primitive.ObjectID `bson:"lesson,omitempty" json:"lesson_id,omitempty"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Type        string              `bson:"type" json:"type"`
	Settings    QuizSettings        `bson:"settings" json:"settings"`
	Questions   []Question          `bson:"questions" json:"questions"`
	Stats       QuizStats           `bson:"stats" json:"stats"`
	IsActive    bool                `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}

// QuestionByID returns the pool question with the given hex id, or nil.
func (q *Quiz) QuestionByID(id string) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID.Hex() == id {
			return &q.Questions[i]
		}
	}
	return nil
}
