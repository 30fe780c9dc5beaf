package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quiz-engine-service/internal/apierr"
	"quiz-engine-service/internal/models"
	"quiz-engine-service/internal/repository"
)

// Authoring input types. The domain model hides answer keys from JSON so no
// learner-facing response can leak them; instructor requests therefore bind
// into these types, which expose is_correct and correct_answer, and are
// mapped onto the model here.
type OptionInput struct {
	Text      string        `json:"text" binding:"required"`
	IsCorrect bool          `json:"is_correct"`
	Media     *models.Media `json:"media,omitempty"`
}

type QuestionInput struct {
	Type          string        `json:"type" binding:"required"`
	Question      string        `json:"question" binding:"required"`
	QuestionMedia *models.Media `json:"question_media,omitempty"`
	Options       []OptionInput `json:"options,omitempty"`
	CorrectAnswer string        `json:"correct_answer,omitempty"`
	Explanation   string        `json:"explanation,omitempty"`
	Points        int           `json:"points"`
	Difficulty    string        `json:"difficulty,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
}

type CreateQuizInput struct {
	CourseID    string              `json:"course_id" binding:"required"`
	ModuleID    string              `json:"module_id,omitempty"`
	LessonID    string              `json:"lesson_id,omitempty"`
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description,omitempty"`
	Type        string              `json:"type,omitempty"`
	Settings    models.QuizSettings `json:"settings"`
	Questions   []QuestionInput     `json:"questions,omitempty"`
}

func buildQuestions(inputs []QuestionInput) []models.Question {
	questions := make([]models.Question, 0, len(inputs))
	for i, in := range inputs {
		q := models.Question{
			ID:            primitive.NewObjectID(),
			Type:          in.Type,
			Question:      in.Question,
			QuestionMedia: in.QuestionMedia,
			CorrectAnswer: in.CorrectAnswer,
			Explanation:   in.Explanation,
			Points:        in.Points,
			Difficulty:    in.Difficulty,
			Tags:          in.Tags,
			Order:         i,
		}
		if q.Points <= 0 {
			q.Points = models.DefaultQuestionPoints
		}
		for _, o := range in.Options {
			q.Options = append(q.Options, models.Option{
				ID:        primitive.NewObjectID(),
				Text:      o.Text,
				IsCorrect: o.IsCorrect,
				Media:     o.Media,
			})
		}
		questions = append(questions, q)
	}
	return questions
}

// CreateQuiz persists an instructor-authored quiz, assigning identities and
// presentation order to the question pool and defaulting unset settings.
func (s *QuizService) CreateQuiz(ctx context.Context, in CreateQuizInput) (*models.Quiz, error) {
	courseID, err := primitive.ObjectIDFromHex(in.CourseID)
	if err != nil {
		return nil, apierr.Validation("invalid course id", nil)
	}
	if in.Title == "" {
		return nil, apierr.Validation("Quiz title is required", nil)
	}
	if in.Settings.PassingScore < 0 || in.Settings.PassingScore > 100 {
		return nil, apierr.Validation("passing_score must be between 0 and 100", nil)
	}

	quiz := &models.Quiz{
		CourseID:    courseID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Settings:    in.Settings,
		Questions:   buildQuestions(in.Questions),
		IsActive:    true,
	}
	if in.ModuleID != "" {
		moduleID, err := primitive.ObjectIDFromHex(in.ModuleID)
		if err != nil {
			return nil, apierr.Validation("invalid module id", nil)
		}
		quiz.ModuleID = &moduleID
	}
	if in.LessonID != "" {
		lessonID, err := primitive.ObjectIDFromHex(in.LessonID)
		if err != nil {
			return nil, apierr.Validation("invalid lesson id", nil)
		}
		quiz.LessonID = &lessonID
	}
	if quiz.Settings.PassingScore == 0 {
		quiz.Settings.PassingScore = 70
	}
	if quiz.Type == "" {
		quiz.Type = "practice"
	}

	if err := s.Quizzes.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// UpdateQuiz applies a partial authoring update. Stats and attempt history
// are engine-owned and not updatable through this path. A questions value is
// re-bound through the authoring input type so answer keys survive and the
// pool gets fresh identities.
func (s *QuizService) UpdateQuiz(ctx context.Context, id string, update bson.M) (*models.Quiz, error) {
	delete(update, "stats")
	delete(update, "_id")

	if raw, ok := update["questions"]; ok {
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, apierr.Validation("invalid questions payload", nil)
		}
		var inputs []QuestionInput
		if err := json.Unmarshal(data, &inputs); err != nil {
			return nil, apierr.Validation("invalid questions payload", nil)
		}
		update["questions"] = buildQuestions(inputs)
	}

	quiz, err := s.Quizzes.Update(ctx, id, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierr.NotFound("Quiz not found")
	}
	return quiz, err
}
