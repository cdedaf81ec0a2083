package middleware

import (
	"net/http"
	"strings"

	"github.com/mrelokusa/PopQuiz/internal/services"

	"github.com/gin-gonic/gin"
)

// JWTAuth requires a valid bearer token and stores the user id in the
// request context under "user_id".
func JWTAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := bearerUserID(c, authService)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuth stores the user id when a valid bearer token is present and
// lets anonymous requests through. Used on the play endpoint, where an
// absent identity means an anonymous play.
func OptionalAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := bearerUserID(c, authService); ok {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

func bearerUserID(c *gin.Context, authService *services.AuthService) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	userID, err := authService.ValidateToken(parts[1])
	if err != nil {
		return "", false
	}
	return userID, true
}
