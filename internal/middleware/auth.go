package middleware

import (
	"net/http"

	"stocklease/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session keys written at login.
const (
	SessionUserID = "user_id"
	SessionRole   = "role"
)

func sessionRole(c *gin.Context) (models.UserRole, bool) {
	roleStr, ok := sessions.Default(c).Get(SessionRole).(string)
	if !ok || roleStr == "" {
		return "", false
	}
	return models.UserRole(roleStr), true
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessions.Default(c).Get(SessionUserID).(uint); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RedirectIfAuthenticated rejects requests that already carry a session, e.g. a second login.
func RedirectIfAuthenticated(home string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessions.Default(c).Get(SessionUserID).(uint); ok {
			c.Redirect(http.StatusFound, home)
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := sessionRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if _, ok := roleSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

func RequirePermission(perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := sessionRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !role.Can(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}
