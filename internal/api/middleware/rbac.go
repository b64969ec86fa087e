package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/troophq/packtrack/internal/models"
)

// roleFromContext pulls the authenticated user's role out of the Gin context.
func roleFromContext(c *gin.Context) (models.Role, bool) {
	value, exists := c.Get("user")
	if !exists {
		return "", false
	}
	user, ok := value.(*models.User)
	if !ok {
		return "", false
	}
	return user.Role, true
}

// RequireEditor ensures the user can perform write operations (admin or editor).
func RequireEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		if !role.CanEdit() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Editor or admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin ensures the user is an admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		if !role.CanAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
