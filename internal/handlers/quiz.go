package handlers

import (
	"errors"
	"net/http"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/services"
	"github.com/mrelokusa/PopQuiz/internal/storage"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
	authService *services.AuthService
}

func NewQuizHandler(quizService *services.QuizService, authService *services.AuthService) *QuizHandler {
	return &QuizHandler{quizService: quizService, authService: authService}
}

type CreateQuizRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Questions   []models.Question `json:"questions" binding:"required"`
	Outcomes    []models.Outcome  `json:"outcomes" binding:"required"`
}

// List godoc
// @Summary      List quizzes
// @Description  scope=global returns the shared feed, scope=local returns quizzes owned by the caller
// @Tags         quizzes
// @Produce      json
// @Param        scope query string false "global or local" default(global)
// @Success      200 {array} Quiz
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/quizzes [get]
func (h *QuizHandler) List(c *gin.Context) {
	scope := storage.ScopeGlobal
	if c.DefaultQuery("scope", "global") == "local" {
		scope = storage.ScopeLocal
	}

	uid := userID(c)
	if scope == storage.ScopeLocal && uid == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "sign in to see your quizzes"})
		return
	}

	quizzes, err := h.quizService.List(c.Request.Context(), scope, uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// Get godoc
// @Summary      Fetch a single quiz
// @Tags         quizzes
// @Produce      json
// @Param        id path string true "Quiz ID"
// @Success      200 {object} Quiz
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id} [get]
func (h *QuizHandler) Get(c *gin.Context) {
	quiz, err := h.quizService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "quiz not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// Create godoc
// @Summary      Publish a quiz
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateQuizRequest true "Quiz content"
// @Success      201 {object} Quiz
// @Failure      400 {object} ValidationResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/quizzes [post]
func (h *QuizHandler) Create(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	uid := userID(c)
	author := "Anon"
	if profile, err := h.authService.Profile(c.Request.Context(), uid); err == nil {
		author = profile.Username
	}

	quiz := &models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		Questions:   req.Questions,
		Outcomes:    req.Outcomes,
		Author:      author,
		UserID:      &uid,
	}
	if err := h.quizService.Create(c.Request.Context(), quiz); err != nil {
		if abortValidation(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, quiz)
}
