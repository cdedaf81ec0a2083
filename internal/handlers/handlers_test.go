package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrelokusa/PopQuiz/internal/middleware"
	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/services"
	"github.com/mrelokusa/PopQuiz/internal/storage/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	quizStore := memory.NewQuizStore()
	profileStore := memory.NewProfileStore()
	userStore := memory.NewUserStore()
	resultStore := memory.NewResultStore(quizStore, profileStore)

	authService := services.NewAuthService(userStore, profileStore, "test-secret")
	quizService := services.NewQuizService(quizStore, nil)
	resultService := services.NewResultService(quizService, resultStore, nil)
	aiService := services.NewAIGenerateService("", "", "")

	authHandler := NewAuthHandler(authService)
	quizHandler := NewQuizHandler(quizService, authService)
	playHandler := NewPlayHandler(resultService)
	activityHandler := NewActivityHandler(resultService)
	aiHandler := NewAIHandler(aiService)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/session", authHandler.Session)
	api.GET("/quizzes", middleware.OptionalAuth(authService), quizHandler.List)
	api.POST("/quizzes", middleware.JWTAuth(authService), quizHandler.Create)
	api.GET("/quizzes/ai-status", aiHandler.Status)
	api.POST("/quizzes/generate", middleware.JWTAuth(authService), aiHandler.Generate)
	api.GET("/quizzes/:id", quizHandler.Get)
	api.POST("/quizzes/:id/play", middleware.OptionalAuth(authService), playHandler.Play)
	api.GET("/quizzes/:id/stats", playHandler.Stats)
	api.GET("/activity", middleware.JWTAuth(authService), activityHandler.List)
	return r, authService
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine) (userID, token string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
		Username: "alice_a",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func sampleQuizRequest() CreateQuizRequest {
	return CreateQuizRequest{
		Title:       "Which houseplant are you?",
		Description: "Answer honestly and meet your inner plant.",
		Outcomes: []models.Outcome{
			{ID: "o1", Title: "Cactus", Description: "Thrives on neglect."},
			{ID: "o2", Title: "Fern", Description: "Needs constant attention."},
		},
		Questions: []models.Question{
			{ID: "q1", Text: "How often do you text back?", Answers: []models.Answer{
				{ID: "q1_a1", Text: "Within seconds", OutcomeID: "o2"},
				{ID: "q1_a2", Text: "Eventually", OutcomeID: "o1"},
			}},
		},
	}
}

func TestRegisterLoginAndSession(t *testing.T) {
	r, _ := newTestRouter(t)
	_, token := registerUser(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Email: "alice@example.com", Password: "other", Username: "clone",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
		Email: "alice@example.com", Password: "wr0ng",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/session", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice@example.com", resp.User.Email)
}

// brokenProfileStore refuses writes so profile creation fails after signup.
type brokenProfileStore struct {
	*memory.ProfileStore
}

func (s *brokenProfileStore) Insert(ctx context.Context, profile *models.Profile) error {
	return errors.New("profiles table offline")
}

func TestSessionSurvivesProfileWriteFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userStore := memory.NewUserStore()
	profiles := &brokenProfileStore{memory.NewProfileStore()}
	authService := services.NewAuthService(userStore, profiles, "test-secret")
	authHandler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/api/v1/auth/register", authHandler.Register)
	r.GET("/api/v1/auth/session", authHandler.Session)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Email: "bob@example.com", Password: "hunter22", Username: "bob_b",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var signup SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/session", signup.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bob@example.com", resp.User.Email)
}

func TestCreateListAndPlayQuiz(t *testing.T) {
	r, _ := newTestRouter(t)
	_, token := registerUser(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/v1/quizzes", token, sampleQuizRequest())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created Quiz
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice_a", created.Author)

	w = doJSON(t, r, http.MethodGet, "/api/v1/quizzes?scope=local", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var quizzes []Quiz
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quizzes))
	require.Len(t, quizzes, 1)

	// Anonymous play is allowed; the pick votes for the cactus.
	w = doJSON(t, r, http.MethodPost, "/api/v1/quizzes/"+created.ID+"/play", "", PlayRequest{
		Picks: []services.Pick{{QuestionID: "q1", AnswerID: "q1_a2"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var played PlayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &played))
	assert.Equal(t, "o1", played.Outcome.ID)
	require.NotNil(t, played.Stats)
	assert.Equal(t, 1, played.Stats.TotalPlays)
	assert.Equal(t, 100, played.Stats.SharePercent)

	w = doJSON(t, r, http.MethodGet, "/api/v1/quizzes/"+created.ID+"/stats?outcome=o1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The owner sees the anonymous play in the activity feed.
	w = doJSON(t, r, http.MethodGet, "/api/v1/activity", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []ActivityEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Which houseplant are you?", entries[0].QuizTitle)
	assert.Equal(t, "Cactus", entries[0].OutcomeTitle)
}

func TestCreateQuizRejectsInvalidContent(t *testing.T) {
	r, _ := newTestRouter(t)
	_, token := registerUser(t, r)

	req := sampleQuizRequest()
	req.Title = "Hi"
	w := doJSON(t, r, http.MethodPost, "/api/v1/quizzes", token, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "title", resp.Errors[0].Field)
}

func TestQuizEndpointsAuthAndNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/quizzes", "", sampleQuizRequest())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/quizzes?scope=local", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/quizzes/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/quizzes/nope/play", "", PlayRequest{Picks: []services.Pick{}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateWithoutCredentialReturns503(t *testing.T) {
	r, _ := newTestRouter(t)
	_, token := registerUser(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/v1/quizzes/ai-status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status AIStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.Available)

	w = doJSON(t, r, http.MethodPost, "/api/v1/quizzes/generate", token, GenerateRequest{Topic: "sharks"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
