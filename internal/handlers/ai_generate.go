package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mrelokusa/PopQuiz/internal/services"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	aiService *services.AIGenerateService
}

func NewAIHandler(aiService *services.AIGenerateService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

type GenerateRequest struct {
	Topic string `json:"topic" binding:"required" example:"90s cartoons"`
}

type AIStatusResponse struct {
	Available bool `json:"available"`
}

// Status godoc
// @Summary      Whether AI generation is configured
// @Tags         ai
// @Produce      json
// @Success      200 {object} AIStatusResponse
// @Router       /api/v1/quizzes/ai-status [get]
func (h *AIHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, AIStatusResponse{Available: h.aiService.IsAvailable()})
}

// Generate godoc
// @Summary      Draft a quiz from a topic
// @Description  Asks the model for a complete quiz draft; the caller still reviews and publishes it
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body GenerateRequest true "Quiz topic"
// @Success      200 {object} Quiz
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /api/v1/quizzes/generate [post]
func (h *AIHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "topic must not be empty"})
		return
	}

	quiz, err := h.aiService.GenerateQuiz(c.Request.Context(), req.Topic)
	if err != nil {
		if errors.Is(err, services.ErrMissingCredential) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
			return
		}
		if errors.Is(err, services.ErrGenerationFailed) {
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, quiz)
}
