package handlers

import (
	"stocklease/internal/middleware"

	"github.com/gin-gonic/gin"
)

// render writes a page payload: the page name, its props and the shared auth block every page
// receives, so the client can draw navigation without a second request.
func render(c *gin.Context, status int, page string, props gin.H) {
	if props == nil {
		props = gin.H{}
	}

	auth := gin.H{"user": nil}
	if u, ok := middleware.CurrentUser(c); ok {
		auth = gin.H{
			"user": gin.H{
				"id":       u.ID,
				"username": u.Username,
				"role":     u.Role,
			},
			"permissions": u.Role.Permissions(),
		}
	}

	c.JSON(status, gin.H{
		"page":  page,
		"props": props,
		"auth":  auth,
		"url":   c.Request.URL.RequestURI(),
	})
}
