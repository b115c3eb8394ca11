// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

const (
	userIDKey      = "user_id"
	userEmailKey   = "user_email"
	tokenClaimsKey = "token_claims"
)

// TokenValidator verifies access tokens issued by the auth provider
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware creates JWT authentication middleware
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			return
		}

		if !authenticate(c, validator, tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Next()
	}
}

// OptionalAuthMiddleware provides optional authentication
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// anonymous on any failure
		if tokenString := auth.ExtractTokenFromHeader(c.GetHeader("Authorization")); tokenString != "" {
			authenticate(c, validator, tokenString)
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, validator TokenValidator, tokenString string) bool {
	claims, err := validator.ValidateAccessToken(tokenString)
	if err != nil {
		return false
	}
	userID, err := claims.UserID()
	if err != nil {
		return false
	}

	c.Set(userIDKey, userID)
	c.Set(userEmailKey, claims.Email)
	c.Set(tokenClaimsKey, claims)
	return true
}

// GetUserIDFromContext extracts user ID from gin context
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserEmailFromContext extracts user email from gin context
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get(userEmailKey)
	if !exists {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
