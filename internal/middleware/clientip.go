package middleware

import (
	"stocklease/internal/activity"
	"stocklease/internal/clientip"

	"github.com/gin-gonic/gin"
)

// ClientIP resolves the client address once per request and stores it for handlers, the request
// logger and the activity recorder.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(activity.ClientIPKey, clientip.ResolveRequest(c.Request))
		c.Next()
	}
}
