package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quiz-platform/internal/models"
)

const (
	ctxUserID = "auth_user_id"
	ctxRole   = "auth_role"
)

// Middleware verifies the bearer token and stores the identity on the
// request context. The role string from the token is parsed into a typed
// models.Role here; everything downstream works with the parsed value.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_TOKEN",
			})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := ValidateToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
				"code":  "INVALID_TOKEN",
			})
			return
		}
		role, err := models.ParseRole(claims.Role)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
				"code":  "INVALID_ROLE",
			})
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, role)
		c.Next()
	}
}

// RequireRole gates a route group to one role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if RoleFrom(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Forbidden",
				"code":  "FORBIDDEN",
			})
			return
		}
		c.Next()
	}
}

// UserIDFrom returns the authenticated user id, empty if unauthenticated.
func UserIDFrom(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// RoleFrom returns the authenticated role, empty if unauthenticated.
func RoleFrom(c *gin.Context) models.Role {
	if v, ok := c.Get(ctxRole); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}
