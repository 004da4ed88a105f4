package middleware

import (
	"stocklease/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CurrentUserKey is the gin.Context key holding the logged-in models.User.
const CurrentUserKey = "CurrentUser"

// InjectUser loads the session user. A session pointing at a deleted account is cleared.
func InjectUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get(SessionUserID).(uint); ok && uid > 0 {
			var user models.User
			if err := db.WithContext(c.Request.Context()).First(&user, uid).Error; err == nil {
				c.Set(CurrentUserKey, user)
			} else {
				log.Debug().Err(err).Uint("user_id", uid).Msg("dropping session of unknown user")
				sess.Clear()
				_ = sess.Save()
			}
		}

		c.Next()
	}
}

// CurrentUser returns the user set by InjectUser.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}
