package handlers

import (
	"net/http"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/services"
	"github.com/mrelokusa/PopQuiz/internal/validation"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// ValidationResponse lists the per-field messages of a rejected input.
type ValidationResponse struct {
	Errors []validation.FieldError `json:"errors"`
}

// Type aliases so swag can resolve models in annotations.
type Quiz = models.Quiz
type QuizResult = models.QuizResult
type ActivityEntry = models.ActivityEntry

// abortValidation writes a 400 when err is a validation error and reports
// whether it handled it.
func abortValidation(c *gin.Context, err error) bool {
	ve, ok := services.AsValidationError(err)
	if !ok {
		return false
	}
	c.JSON(http.StatusBadRequest, ValidationResponse{Errors: ve.Errors})
	return true
}

// userID returns the authenticated user id set by the auth middleware, or "".
func userID(c *gin.Context) string {
	return c.GetString("user_id")
}
