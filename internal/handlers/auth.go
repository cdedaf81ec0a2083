package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"hunter22"`
	Username string `json:"username" example:"alice_a"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

// Register godoc
// @Summary      Sign up
// @Description  Register a new account; returns the identity and an active session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Signup data"
// @Success      201 {object} SessionResponse
// @Failure      400 {object} ValidationResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, token, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		if abortValidation(c, err) {
			return
		}
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{User: user, Token: token})
}

// Login godoc
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} SessionResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, token, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, SessionResponse{User: user, Token: token})
}

// Logout godoc
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MessageResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.SignOut(c.Request.Context(), userID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "signed out"})
}

// Session godoc
// @Summary      Restore the current session
// @Description  Returns the identity behind the bearer token, ensuring its profile row exists
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} SessionResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	user, err := h.authService.Session(c.Request.Context(), bearerToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.authService.EnsureProfile(c.Request.Context(), user); err != nil {
		// Non-fatal: the session is valid, the profile retries next time.
		slog.Warn("ensure profile failed on session restore", "user", user.ID, "err", err)
	}
	c.JSON(http.StatusOK, SessionResponse{User: user})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
