package service

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quiz-engine-service/internal/apierr"
	"quiz-engine-service/internal/event"
	"quiz-engine-service/internal/gamification"
	"quiz-engine-service/internal/grading"
	"quiz-engine-service/internal/models"
	"quiz-engine-service/internal/policy"
	"quiz-engine-service/internal/repository"
	"quiz-engine-service/internal/sampling"
	"quiz-engine-service/internal/session"
)

// maxAppendRetries bounds the recount-and-retry loop when concurrent
// submissions race on the same (user, quiz) pair.
const maxAppendRetries = 3

type QuizStore interface {
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
	FindByLesson(ctx context.Context, lessonID string) (*models.Quiz, error)
	Create(ctx context.Context, quiz *models.Quiz) error
	Update(ctx context.Context, id string, update bson.M) (*models.Quiz, error)
	ApplyAttemptStats(ctx context.Context, id string, percentage int, passed bool) error
}

type EnrollmentStore interface {
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	AppendAttempt(ctx context.Context, enrollmentID primitive.ObjectID, attempt models.QuizAttempt, expectedPrior int) error
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	AwardPoints(ctx context.Context, id string, points int) error
	UpdateStreak(ctx context.Context, id string, streak models.Streak, prevLastActivity *time.Time) error
}

// AttemptSessionStore records the shown set of an in-flight attempt.
type AttemptSessionStore interface {
	Put(ctx context.Context, userID, quizID string, rec session.Record, timeLimit time.Duration) error
	Get(ctx context.Context, userID, quizID string) (*session.Record, error)
	Delete(ctx context.Context, userID, quizID string) error
}

type Publisher interface {
	Publish(eventType string, payload interface{}) error
}

type QuizService struct {
	Quizzes     QuizStore
	Enrollments EnrollmentStore
	Users       UserStore
	Sessions    AttemptSessionStore
	Sampler     *sampling.Sampler
	Events      Publisher

	// DefaultQuestionCount applies when the client requests no count.
	DefaultQuestionCount int

	// Now is overridable so streak and timestamp behavior is testable.
	Now func() time.Time
}

func NewQuizService(
	quizzes QuizStore,
	enrollments EnrollmentStore,
	users UserStore,
	sessions AttemptSessionStore,
	events Publisher,
	defaultQuestionCount int,
) *QuizService {
	return &QuizService{
		Quizzes:              quizzes,
		Enrollments:          enrollments,
		Users:                users,
		Sessions:             sessions,
		Sampler:              sampling.NewSampler(),
		Events:               events,
		DefaultQuestionCount: defaultQuestionCount,
		Now:                  time.Now,
	}
}

// QuizAccess is a quiz as shown to an enrolled learner: the model's JSON
// shape already hides answer keys, and attempt metadata rides along.
type QuizAccess struct {
	Quiz        *models.Quiz `json:"quiz"`
	Attempts    int          `json:"attempts"`
	MaxAttempts int          `json:"max_attempts"`
	CanAttempt  bool         `json:"can_attempt"`
}

// StartAttemptResult is the payload of a started attempt. QuestionIDs is
// the shown set the client must echo back on submit.
type StartAttemptResult struct {
	Questions            []sampling.PresentedQuestion `json:"questions"`
	QuestionIDs          []string                     `json:"question_ids"`
	TotalQuestionsInPool int                          `json:"total_questions_in_pool"`
	QuestionsSelected    int                          `json:"questions_selected"`
	MaxPossibleScore     int                          `json:"max_possible_score"`
	TimeLimit            int                          `json:"time_limit,omitempty"`
	AttemptNumber        int                          `json:"attempt_number"`
	StartedAt            time.Time                    `json:"started_at"`
}

type SubmitInput struct {
	Answers     []grading.SubmittedAnswer
	QuestionIDs []string
	TimeSpent   int
}

type Explanation struct {
	QuestionID  string `json:"question_id"`
	Explanation string `json:"explanation"`
}

type SubmitResult struct {
	Score                int                    `json:"score"`
	MaxScore             int                    `json:"max_score"`
	Percentage           int                    `json:"percentage"`
	Passed               bool                   `json:"passed"`
	AttemptNumber        int                    `json:"attempt_number"`
	Answers              []models.AttemptAnswer `json:"answers,omitempty"`
	Explanations         []Explanation          `json:"explanations,omitempty"`
	QuestionsGraded      int                    `json:"questions_graded"`
	TotalQuestionsInPool int                    `json:"total_questions_in_pool"`
}

type ResultsQuizMeta struct {
	Title        string `json:"title"`
	PassingScore int    `json:"passing_score"`
	MaxAttempts  int    `json:"max_attempts,omitempty"`
}

type ResultsView struct {
	Attempts []models.QuizAttempt `json:"attempts"`
	Quiz     ResultsQuizMeta      `json:"quiz"`
}

// loadQuizForLearner fetches an active quiz and verifies the caller's
// enrollment before any content is revealed.
func (s *QuizService) loadQuizForLearner(ctx context.Context, quizID, userID string) (*models.Quiz, *models.Enrollment, error) {
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apierr.NotFound("Quiz not found")
		}
		return nil, nil, err
	}
	if !quiz.IsActive {
		return nil, nil, apierr.NotFound("Quiz not found")
	}

	enrollment, err := s.Enrollments.FindByUserAndCourse(ctx, userID, quiz.CourseID.Hex())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apierr.Forbidden("Not enrolled in this course")
		}
		return nil, nil, err
	}
	return quiz, enrollment, nil
}

func (s *QuizService) GetQuiz(ctx context.Context, quizID, userID string) (*QuizAccess, error) {
	quiz, enrollment, err := s.loadQuizForLearner(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	return s.quizAccess(quiz, enrollment), nil
}

func (s *QuizService) GetQuizByLesson(ctx context.Context, lessonID, userID string) (*QuizAccess, error) {
	quiz, err := s.Quizzes.FindByLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound("Quiz not found for this lesson")
		}
		return nil, err
	}
	enrollment, err := s.Enrollments.FindByUserAndCourse(ctx, userID, quiz.CourseID.Hex())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.Forbidden("Not enrolled in this course")
		}
		return nil, err
	}
	return s.quizAccess(quiz, enrollment), nil
}

func (s *QuizService) quizAccess(quiz *models.Quiz, enrollment *models.Enrollment) *QuizAccess {
	prior := len(enrollment.AttemptsForQuiz(quiz.ID))
	return &QuizAccess{
		Quiz:        quiz,
		Attempts:    prior,
		MaxAttempts: quiz.Settings.MaxAttempts,
		CanAttempt:  policy.CanAttempt(prior, quiz.Settings.MaxAttempts),
	}
}

// StartAttempt gates the start, samples the shown set, records it, and
// returns the sanitized questions. No attempt record is persisted until
// submission.
func (s *QuizService) StartAttempt(ctx context.Context, quizID, userID string, requestedCount int) (*StartAttemptResult, error) {
	quiz, enrollment, err := s.loadQuizForLearner(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	prior := len(enrollment.AttemptsForQuiz(quiz.ID))
	if !policy.CanAttempt(prior, quiz.Settings.MaxAttempts) {
		return nil, apierr.AttemptLimit("Maximum attempts reached")
	}

	count := requestedCount
	if count <= 0 {
		count = s.DefaultQuestionCount
	}

	set := s.Sampler.SampleAttempt(quiz.Questions, count, quiz.Settings)
	startedAt := s.Now()

	if s.Sessions != nil {
		rec := session.Record{QuestionIDs: set.QuestionIDs, StartedAt: startedAt}
		timeLimit := time.Duration(quiz.Settings.TimeLimit) * time.Second
		// Key by the canonical id, not the raw path parameter, so Get at
		// submission always finds the record.
		if err := s.Sessions.Put(ctx, userID, quiz.ID.Hex(), rec, timeLimit); err != nil {
			// Best effort: the echo contract still works without it.
			log.Printf("quiz %s: recording attempt session failed: %v", quizID, err)
		}
	}

	s.publish(event.AttemptStarted, map[string]interface{}{
		"quiz_id":        quizID,
		"user_id":        userID,
		"attempt_number": prior + 1,
	})

	return &StartAttemptResult{
		Questions:            set.Questions,
		QuestionIDs:          set.QuestionIDs,
		TotalQuestionsInPool: set.TotalInPool,
		QuestionsSelected:    len(set.Questions),
		MaxPossibleScore:     set.MaxPossibleScore,
		TimeLimit:            quiz.Settings.TimeLimit,
		AttemptNumber:        prior + 1,
		StartedAt:            startedAt,
	}, nil
}

// SubmitAttempt grades the submission against the shown set, durably
// appends the attempt record, then folds the grade into quiz stats and
// gamification. Everything after the append is best-effort derived state:
// its failure is logged and published for reconciliation, never reported to
// the learner as attempt failure.
func (s *QuizService) SubmitAttempt(ctx context.Context, quizID, userID string, in SubmitInput) (*SubmitResult, error) {
	quiz, enrollment, err := s.loadQuizForLearner(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	questionsToGrade := s.questionsToGrade(ctx, quiz, userID, in.QuestionIDs)

	if fieldErrs := grading.ValidateAnswers(questionsToGrade, in.Answers); len(fieldErrs) > 0 {
		return nil, apierr.Validation("Invalid answer payload", fieldErrs)
	}

	grade := grading.Grade(questionsToGrade, in.Answers, quiz.Settings.PassingScore)

	attemptNumber, err := s.appendAttempt(ctx, quiz, enrollment, grade, in.TimeSpent)
	if err != nil {
		return nil, err
	}

	if err := s.Quizzes.ApplyAttemptStats(ctx, quizID, grade.Percentage, grade.Passed); err != nil {
		log.Printf("quiz %s: stats update failed after attempt %d: %v", quizID, attemptNumber, err)
		s.publish(event.StatsUpdateFailed, map[string]interface{}{
			"quiz_id":    quizID,
			"percentage": grade.Percentage,
			"passed":     grade.Passed,
		})
	}

	if grade.Passed {
		s.applyGamification(ctx, userID, quizID, attemptNumber)
	}

	if s.Sessions != nil {
		if err := s.Sessions.Delete(ctx, userID, quiz.ID.Hex()); err != nil {
			log.Printf("quiz %s: clearing attempt session failed: %v", quizID, err)
		}
	}

	s.publish(event.AttemptSubmitted, map[string]interface{}{
		"quiz_id":        quizID,
		"user_id":        userID,
		"attempt_number": attemptNumber,
		"percentage":     grade.Percentage,
		"passed":         grade.Passed,
	})
	if grade.Passed {
		s.publish(event.AttemptPassed, map[string]interface{}{
			"quiz_id":        quizID,
			"user_id":        userID,
			"attempt_number": attemptNumber,
		})
	}

	result := &SubmitResult{
		Score:                grade.Score,
		MaxScore:             grade.MaxScore,
		Percentage:           grade.Percentage,
		Passed:               grade.Passed,
		AttemptNumber:        attemptNumber,
		QuestionsGraded:      len(questionsToGrade),
		TotalQuestionsInPool: len(quiz.Questions),
	}
	if quiz.Settings.ShowCorrectAnswers {
		result.Answers = grade.Answers
	}
	if quiz.Settings.ShowExplanations {
		for _, q := range questionsToGrade {
			result.Explanations = append(result.Explanations, Explanation{
				QuestionID:  q.ID.Hex(),
				Explanation: q.Explanation,
			})
		}
	}
	return result, nil
}

// questionsToGrade resolves the shown-set echo against the pool. A missing
// echo falls back to grading the whole pool for older clients; both the
// fallback and a divergence from the recorded session weaken the
// start/submit binding, so they are logged and published rather than
// silently accepted.
func (s *QuizService) questionsToGrade(ctx context.Context, quiz *models.Quiz, userID string, echoed []string) []models.Question {
	var rec *session.Record
	if s.Sessions != nil {
		var err error
		rec, err = s.Sessions.Get(ctx, userID, quiz.ID.Hex())
		if err != nil {
			log.Printf("quiz %s: reading attempt session failed: %v", quiz.ID.Hex(), err)
		}
	}

	if len(echoed) == 0 {
		log.Printf("quiz %s: submission without shown-set echo from user %s, grading full pool", quiz.ID.Hex(), userID)
		return quiz.Questions
	}

	if rec != nil && !rec.Matches(echoed) {
		log.Printf("quiz %s: shown-set echo diverges from recorded session for user %s", quiz.ID.Hex(), userID)
		s.publish(event.ShownSetEchoDivergence, map[string]interface{}{
			"quiz_id":  quiz.ID.Hex(),
			"user_id":  userID,
			"echoed":   echoed,
			"recorded": rec.QuestionIDs,
		})
	}

	wanted := make(map[string]bool, len(echoed))
	for _, id := range echoed {
		wanted[id] = true
	}
	var selected []models.Question
	for _, q := range quiz.Questions {
		if wanted[q.ID.Hex()] {
			selected = append(selected, q)
		}
	}
	return selected
}

// appendAttempt serializes attempt numbering per (user, quiz): the guarded
// push fails when another submission appended first, in which case the
// prior count is re-read and the write retried. Attempt numbers are
// therefore strictly sequential with no duplicates.
func (s *QuizService) appendAttempt(ctx context.Context, quiz *models.Quiz, enrollment *models.Enrollment, grade *grading.Result, timeSpent int) (int, error) {
	prior := len(enrollment.AttemptsForQuiz(quiz.ID))

	for retries := 0; ; retries++ {
		attempt := models.QuizAttempt{
			QuizID:        quiz.ID,
			AttemptNumber: prior + 1,
			Score:         grade.Score,
			MaxScore:      grade.MaxScore,
			Answers:       grade.Answers,
			CompletedAt:   s.Now(),
			TimeSpent:     timeSpent,
		}

		err := s.Enrollments.AppendAttempt(ctx, enrollment.ID, attempt, prior)
		if err == nil {
			return prior + 1, nil
		}
		if !errors.Is(err, repository.ErrAttemptConflict) {
			return 0, apierr.Internal("Failed to record attempt")
		}
		if retries >= maxAppendRetries {
			log.Printf("quiz %s: attempt append conflicted %d times for enrollment %s", quiz.ID.Hex(), retries+1, enrollment.ID.Hex())
			return 0, apierr.Internal("Failed to record attempt")
		}

		fresh, ferr := s.Enrollments.FindByUserAndCourse(ctx, enrollment.UserID.Hex(), enrollment.CourseID.Hex())
		if ferr != nil {
			return 0, apierr.Internal("Failed to record attempt")
		}
		prior = len(fresh.AttemptsForQuiz(quiz.ID))
	}
}

// applyGamification awards pass points and advances the daily streak. All
// failures here are reconciliation work, not request failures: the grade
// has already been shown to the learner.
func (s *QuizService) applyGamification(ctx context.Context, userID, quizID string, attemptNumber int) {
	points := gamification.PointsForPass(attemptNumber)
	if err := s.Users.AwardPoints(ctx, userID, points); err != nil {
		log.Printf("user %s: awarding %d points failed: %v", userID, points, err)
		s.publish(event.GamificationFailed, map[string]interface{}{
			"user_id": userID,
			"quiz_id": quizID,
			"points":  points,
		})
		return
	}

	for retries := 0; retries < 2; retries++ {
		user, err := s.Users.FindByID(ctx, userID)
		if err != nil {
			log.Printf("user %s: streak read failed: %v", userID, err)
			break
		}
		next, changed := gamification.NextStreak(user.Gamification.Streak, s.Now())
		if !changed {
			return
		}
		err = s.Users.UpdateStreak(ctx, userID, next, user.Gamification.Streak.LastActivityDate)
		if err == nil {
			return
		}
		if !errors.Is(err, repository.ErrStaleStreak) {
			log.Printf("user %s: streak update failed: %v", userID, err)
			break
		}
	}
	s.publish(event.GamificationFailed, map[string]interface{}{
		"user_id": userID,
		"quiz_id": quizID,
		"reason":  "streak",
	})
}

func (s *QuizService) GetResults(ctx context.Context, quizID, userID string) (*ResultsView, error) {
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound("Quiz not found")
		}
		return nil, err
	}
	enrollment, err := s.Enrollments.FindByUserAndCourse(ctx, userID, quiz.CourseID.Hex())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.Forbidden("Not enrolled in this course")
		}
		return nil, err
	}

	attempts := enrollment.AttemptsForQuiz(quiz.ID)
	if attempts == nil {
		attempts = []models.QuizAttempt{}
	}
	return &ResultsView{
		Attempts: attempts,
		Quiz: ResultsQuizMeta{
			Title:        quiz.Title,
			PassingScore: quiz.Settings.PassingScore,
			MaxAttempts:  quiz.Settings.MaxAttempts,
		},
	}, nil
}

func (s *QuizService) publish(eventType string, payload interface{}) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(eventType, payload); err != nil {
		log.Printf("event: %s publish failed: %v", eventType, err)
	}
}
