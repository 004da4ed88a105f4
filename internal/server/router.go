package server

import (
	"net/http"
	"time"

	"stocklease/internal/config"
	"stocklease/internal/handlers"
	"stocklease/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const (
	sessionName = "stocklease_session"
	homePath    = "/dashboard"
)

func NewRouter(cfg *config.Config, db *gorm.DB, h *handlers.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.ClientIP())
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((12 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.Use(middleware.InjectUser(db))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	// HEALTH / METRICS
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	m := middleware.Aliases{Home: homePath}
	route := func(method, path string, names []string, handler gin.HandlerFunc) {
		chain := append(m.Must(names...), handler)
		r.Handle(method, path, chain...)
	}

	// AUTH
	limiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, cfg.LoginRateBurst)
	r.POST("/login", append(m.Must("guest"), middleware.RateLimit(limiter), h.Login)...)
	route(http.MethodPost, "/logout", []string{"auth"}, h.Logout)
	route(http.MethodGet, "/me", []string{"auth"}, h.Me)

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, homePath) })
	route(http.MethodGet, homePath, []string{"auth"}, h.Dashboard)

	// ITEMS
	route(http.MethodGet, "/items", []string{"auth", "permission:items.view"}, h.ListItems)
	route(http.MethodPost, "/items", []string{"auth", "permission:items.manage"}, h.CreateItem)
	route(http.MethodGet, "/items/:id", []string{"auth", "permission:items.view"}, h.ShowItem)
	route(http.MethodPut, "/items/:id", []string{"auth", "permission:items.manage"}, h.UpdateItem)
	// deletion is admin only, regardless of items.manage
	route(http.MethodDelete, "/items/:id", []string{"auth", "role:admin"}, h.DeleteItem)

	// LEASES
	route(http.MethodGet, "/leases", []string{"auth", "permission:leases.view"}, h.ListLeases)
	route(http.MethodPost, "/leases", []string{"auth", "permission:leases.manage"}, h.CreateLease)
	route(http.MethodPost, "/leases/:id/return", []string{"auth", "permission:leases.manage"}, h.ReturnLease)

	// ACTIVITY
	route(http.MethodGet, "/activity", []string{"auth", "permission:activity.view"}, h.ListActivity)

	// USERS
	route(http.MethodPost, "/users", []string{"auth", "role:admin"}, h.CreateUser)

	return r
}
