package handlers

import (
	"errors"
	"net/http"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/scoring"
	"github.com/mrelokusa/PopQuiz/internal/services"
	"github.com/mrelokusa/PopQuiz/internal/storage"

	"github.com/gin-gonic/gin"
)

type PlayHandler struct {
	resultService *services.ResultService
}

func NewPlayHandler(resultService *services.ResultService) *PlayHandler {
	return &PlayHandler{resultService: resultService}
}

type PlayRequest struct {
	Picks []services.Pick `json:"picks" binding:"required"`
}

type PlayResponse struct {
	Outcome models.Outcome     `json:"outcome"`
	Stats   *scoring.QuizStats `json:"stats,omitempty"`
}

// Play godoc
// @Summary      Submit a play-through
// @Description  Scores the submitted picks, records the result and returns the winning outcome with crowd stats
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quiz ID"
// @Param        request body PlayRequest true "One pick per answered question"
// @Success      200 {object} PlayResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/play [post]
func (h *PlayHandler) Play(c *gin.Context) {
	var req PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var uid *string
	if id := userID(c); id != "" {
		uid = &id
	}

	outcome, err := h.resultService.Play(c.Request.Context(), c.Param("id"), req.Picks, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "quiz not found"})
			return
		}
		if errors.Is(err, scoring.ErrEmptyOutcomeSet) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, PlayResponse{Outcome: outcome.Outcome, Stats: outcome.Stats})
}

// Stats godoc
// @Summary      Crowd statistics for an outcome
// @Tags         quizzes
// @Produce      json
// @Param        id path string true "Quiz ID"
// @Param        outcome query string true "Outcome ID the player landed on"
// @Success      200 {object} scoring.QuizStats
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/stats [get]
func (h *PlayHandler) Stats(c *gin.Context) {
	stats, err := h.resultService.StatsFor(c.Request.Context(), c.Param("id"), c.Query("outcome"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "quiz not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
