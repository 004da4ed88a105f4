package activity

import (
	"stocklease/internal/clientip"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// ClientIPKey is the gin.Context key the client IP middleware stores the resolved address under.
const ClientIPKey = "client_ip"

// FromGin builds the activity context of the current request from the session and headers.
func FromGin(c *gin.Context) Context {
	actx := Context{
		IPAddress: c.GetString(ClientIPKey),
		UserAgent: c.Request.UserAgent(),
	}
	if actx.IPAddress == "" {
		actx.IPAddress = clientip.ResolveRequest(c.Request)
	}

	if uid, ok := sessions.Default(c).Get("user_id").(uint); ok && uid > 0 {
		actx.UserID = &uid
	}
	return actx
}
