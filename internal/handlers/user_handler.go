package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-engine-service/internal/auth"
	"quiz-engine-service/internal/service"
)

type UserHandler struct {
	Service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

// GetGamification returns the caller's points, level, and streak block.
func (h *UserHandler) GetGamification(c *gin.Context) {
	gamification, err := h.Service.GetGamification(c.Request.Context(), c.GetString(auth.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gamification)
}
