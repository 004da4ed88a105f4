package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"stocklease/internal/activity"
	"stocklease/internal/config"
	"stocklease/internal/database"
	"stocklease/internal/database/dbtest"
	"stocklease/internal/handlers"
	"stocklease/internal/inventory"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	db, _ := dbtest.New(t)
	store := database.NewActivityStore(db)
	h := handlers.New(db, inventory.NewService(db), activity.NewRecorder(store), store)
	return NewRouter(cfg, db, h)
}

func testConfig() *config.Config {
	return &config.Config{
		SessionSecret:      strings.Repeat("k", 32),
		LoginRatePerMinute: 1,
		LoginRateBurst:     1,
	}
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequestWithContext(context.Background(), method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.10:5000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPublicRoutes(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w := send(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = send(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	w = send(r, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r := newTestRouter(t, testConfig())

	routes := []struct{ method, path string }{
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/me"},
		{http.MethodPost, "/logout"},
		{http.MethodGet, "/items"},
		{http.MethodPost, "/items"},
		{http.MethodGet, "/items/1"},
		{http.MethodPut, "/items/1"},
		{http.MethodDelete, "/items/1"},
		{http.MethodGet, "/leases"},
		{http.MethodPost, "/leases"},
		{http.MethodPost, "/leases/1/return"},
		{http.MethodGet, "/activity"},
		{http.MethodPost, "/users"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := send(r, rt.method, rt.path, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestLoginIsRateLimited(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w := send(r, http.MethodPost, "/login", `{"username":"mia"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = send(r, http.MethodPost, "/login", `{"username":"mia"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRootRedirectsHome(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w := send(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, homePath, w.Header().Get("Location"))
}
