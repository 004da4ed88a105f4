package handlers

import (
	"net/http"
	"strconv"

	"stocklease/internal/database"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) ListActivity(c *gin.Context) {
	var f database.ActivityFilter

	if s := c.Query("user_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		f.UserID = uint(id)
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		f.Limit = n
	}
	f.Action = c.Query("action")

	logs, err := h.trail.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "activity/index", gin.H{
		"logs":   logs,
		"filter": gin.H{"user_id": f.UserID, "action": f.Action},
	})
}
