package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-engine-service/internal/auth"
	"quiz-engine-service/internal/service"
)

type EnrollmentHandler struct {
	Service *service.EnrollmentService
}

func NewEnrollmentHandler(s *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{Service: s}
}

// Enroll creates the caller's enrollment in a course. Duplicate enrollment
// is a conflict, never a second document.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req struct {
		CourseID string `json:"course_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"code":    "BAD_REQUEST",
			"details": err.Error(),
		})
		return
	}

	enrollment, err := h.Service.Enroll(c.Request.Context(), c.GetString(auth.ContextUserID), req.CourseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	enrollment, err := h.Service.GetEnrollment(c.Request.Context(), c.GetString(auth.ContextUserID), c.Param("courseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}
