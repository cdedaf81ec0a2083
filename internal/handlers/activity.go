package handlers

import (
	"net/http"

	"github.com/mrelokusa/PopQuiz/internal/services"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	resultService *services.ResultService
}

func NewActivityHandler(resultService *services.ResultService) *ActivityHandler {
	return &ActivityHandler{resultService: resultService}
}

// List godoc
// @Summary      Recent plays of the caller's quizzes
// @Tags         activity
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} ActivityEntry
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	entries, err := h.resultService.Activity(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
