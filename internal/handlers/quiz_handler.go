package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"quiz-engine-service/internal/auth"
	"quiz-engine-service/internal/grading"
	"quiz-engine-service/internal/service"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

// GetQuiz returns the sanitized quiz with the caller's attempt metadata.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	access, err := h.Service.GetQuiz(c.Request.Context(), c.Param("quizId"), c.GetString(auth.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, access)
}

func (h *QuizHandler) GetQuizByLesson(c *gin.Context) {
	access, err := h.Service.GetQuizByLesson(c.Request.Context(), c.Param("lessonId"), c.GetString(auth.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, access)
}

// StartAttempt begins a new attempt with an optional questionCount override.
func (h *QuizHandler) StartAttempt(c *gin.Context) {
	count, _ := strconv.Atoi(c.Query("questionCount"))

	result, err := h.Service.StartAttempt(c.Request.Context(), c.Param("quizId"), c.GetString(auth.ContextUserID), count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitAttempt grades the submitted answers. question_ids is the shown-set
// echo from start; older clients may omit it.
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	var req struct {
		Answers     []grading.SubmittedAnswer `json:"answers" binding:"required"`
		QuestionIDs []string                  `json:"question_ids"`
		TimeSpent   int                       `json:"time_spent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"code":    "BAD_REQUEST",
			"details": err.Error(),
		})
		return
	}

	result, err := h.Service.SubmitAttempt(c.Request.Context(), c.Param("quizId"), c.GetString(auth.ContextUserID), service.SubmitInput{
		Answers:     req.Answers,
		QuestionIDs: req.QuestionIDs,
		TimeSpent:   req.TimeSpent,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *QuizHandler) GetResults(c *gin.Context) {
	results, err := h.Service.GetResults(c.Request.Context(), c.Param("quizId"), c.GetString(auth.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// CreateQuiz is the instructor authoring endpoint. It binds a dedicated
// input type: the domain model's answer-key fields are not JSON-bindable.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var in service.CreateQuizInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"code":    "BAD_REQUEST",
			"details": err.Error(),
		})
		return
	}
	quiz, err := h.Service.CreateQuiz(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"quiz": quiz})
}

func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	var update bson.M
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"code":    "BAD_REQUEST",
			"details": err.Error(),
		})
		return
	}
	quiz, err := h.Service.UpdateQuiz(c.Request.Context(), c.Param("quizId"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quiz": quiz})
}
