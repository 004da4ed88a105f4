package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"stocklease/internal/database"
	"stocklease/internal/middleware"
	"stocklease/internal/models"
	"stocklease/internal/telemetry"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type loginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func (h *Handlers) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil || form.Username == "" || form.Password == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "username and password are required"})
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).Where("username = ?", strings.TrimSpace(form.Username)).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, err)
			return
		}
		telemetry.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		telemetry.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	sess := sessions.Default(c)
	sess.Clear()
	sess.Set(middleware.SessionUserID, user.ID)
	sess.Set(middleware.SessionRole, string(user.Role))
	if err := sess.Save(); err != nil {
		fail(c, err)
		return
	}
	c.Set(middleware.CurrentUserKey, user)

	telemetry.LoginAttemptsTotal.WithLabelValues("success").Inc()
	h.record(c, "login", "")

	render(c, http.StatusOK, "dashboard", nil)
}

func (h *Handlers) Logout(c *gin.Context) {
	h.record(c, "logout", "")

	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = sess.Save()

	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *Handlers) Me(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	render(c, http.StatusOK, "profile", nil)
}

type userForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser lets an admin add an account of any role.
func (h *Handlers) CreateUser(c *gin.Context) {
	var form userForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	form.Username = strings.TrimSpace(form.Username)
	if len(form.Username) < 3 || len(form.Password) < database.MinPasswordLen {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("username must be at least 3 and password at least %d characters", database.MinPasswordLen)})
		return
	}
	role := models.UserRole(form.Role)
	if !role.Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown role"})
		return
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).Model(&models.User{}).Where("username = ?", form.Username).Count(&count).Error; err != nil {
		fail(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
		return
	}

	user, err := database.CreateUser(h.db.WithContext(c.Request.Context()), form.Username, form.Password, role)
	if err != nil {
		fail(c, err)
		return
	}

	h.record(c, "create_user", "Created user "+user.Username+" ("+string(user.Role)+")")

	c.JSON(http.StatusCreated, gin.H{"user": user})
}
