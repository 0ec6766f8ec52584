package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teamtodo/server/internal/rpc"
)

const (
	// UserIDKey is the context key for the authenticated user id.
	UserIDKey = "user_id"
	// EmailKey is the context key for the authenticated email.
	EmailKey = "email"
	// UserTypeKey is the context key for the account type.
	UserTypeKey = "user_type"
	// UserStatusKey is the context key for the account status.
	UserStatusKey = "user_status"
)

// TokenValidator verifies a JWT and returns its claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*rpc.TokenClaims, error)
}

// Auth returns a middleware that requires a valid Bearer token and puts
// the decoded identity into the request context.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "missing or malformed authorization header",
				},
			})
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "invalid or expired token",
				},
			})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(UserTypeKey, claims.UserType)
		c.Set(UserStatusKey, claims.UserStatus)

		c.Next()
	}
}

// ActiveStatus returns a middleware that rejects banned accounts. It must
// run after Auth.
func ActiveStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserStatusKey) == "BANNED" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "account is banned",
				},
			})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id from the gin context.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetUserType returns the authenticated account type from the gin context.
func GetUserType(c *gin.Context) string {
	return c.GetString(UserTypeKey)
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
