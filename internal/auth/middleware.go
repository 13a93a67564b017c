package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trips-club/internal/logger"
)

const (
	contextUserID = "user_id"
	contextEmail  = "email"
)

// bearerToken extracts the token from a "Bearer <token>" header
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware validates JWT tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format. Expected: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := ValidateToken(tokenString)
		if err != nil {
			logger.Get().LogSecurity("invalid_token", 0, c.ClientIP(), map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextEmail, claims.Email)

		c.Next()
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is present and
// lets anonymous requests through otherwise
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := ValidateToken(tokenString); err == nil {
				c.Set(contextUserID, claims.UserID)
				c.Set(contextEmail, claims.Email)
			}
		}
		c.Next()
	}
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(contextUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint)
	return id, ok
}

// GetEmail retrieves the email from the context
func GetEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(contextEmail)
	if !exists {
		return "", false
	}

	address, ok := email.(string)
	return address, ok
}
