package activity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"stocklease/internal/models"
	"stocklease/internal/telemetry"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	entries []models.ActivityLog
	err     error
}

func (s *memoryStore) Create(_ context.Context, entry *models.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	entry.ID = uint(len(s.entries) + 1)
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *memoryStore) all() []models.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ActivityLog(nil), s.entries...)
}

func uintPtr(v uint) *uint { return &v }

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRecorder(store Store) *Recorder {
	return NewRecorder(store,
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(zerolog.Nop()),
	)
}

func TestRecord_Unauthenticated(t *testing.T) {
	store := &memoryStore{}
	rec := newTestRecorder(store)

	rec.Record(context.Background(), Context{IPAddress: "203.0.113.5", UserAgent: "test-agent"}, "create_item", "desc")
	rec.Record(context.Background(), Context{}, "", "")
	rec.Record(context.Background(), Context{}, "login", "")

	assert.Empty(t, store.all())
}

func TestRecord_Authenticated(t *testing.T) {
	store := &memoryStore{}
	rec := newTestRecorder(store)

	rec.Record(context.Background(), Context{
		UserID:    uintPtr(42),
		IPAddress: "203.0.113.5",
		UserAgent: "test-agent",
	}, "create_item", "")

	entries := store.all()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, uint(42), e.UserID)
	assert.Equal(t, "create_item", e.Action)
	assert.Nil(t, e.Description)
	assert.Equal(t, "203.0.113.5", e.IPAddress)
	assert.Equal(t, "test-agent", e.UserAgent)
	assert.Equal(t, fixedNow, e.CreatedAt)
}

func TestRecord_WithDescription(t *testing.T) {
	store := &memoryStore{}
	rec := newTestRecorder(store)

	rec.Record(context.Background(), Context{UserID: uintPtr(7)}, "return_lease", "Returned lease #3")

	entries := store.all()
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Description)
	assert.Equal(t, "Returned lease #3", *entries[0].Description)
	assert.Equal(t, "", entries[0].UserAgent)
}

func TestRecord_EmptyActionSkipped(t *testing.T) {
	store := &memoryStore{}
	rec := newTestRecorder(store)

	rec.Record(context.Background(), Context{UserID: uintPtr(1)}, "   ", "something")

	assert.Empty(t, store.all())
}

func TestRecord_StoreFailureIsSwallowed(t *testing.T) {
	store := &memoryStore{err: errors.New("db down")}
	rec := newTestRecorder(store)

	before := testutil.ToFloat64(telemetry.ActivityWriteFailuresTotal)
	assert.NotPanics(t, func() {
		rec.Record(context.Background(), Context{UserID: uintPtr(1)}, "login", "")
	})
	assert.Equal(t, before+1, testutil.ToFloat64(telemetry.ActivityWriteFailuresTotal))
}

func TestRecord_NilRecorderAndStore(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.Record(context.Background(), Context{UserID: uintPtr(1)}, "login", "")
	})
	assert.NotPanics(t, func() {
		NewRecorder(nil).Record(context.Background(), Context{UserID: uintPtr(1)}, "login", "")
	})
}

func TestRecord_Concurrent(t *testing.T) {
	store := &memoryStore{}
	rec := newTestRecorder(store)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(uid uint) {
			defer wg.Done()
			rec.Record(context.Background(), Context{UserID: &uid}, "update_item", "")
		}(uint(i))
	}
	wg.Wait()

	assert.Len(t, store.all(), 20)
}

// ---------------------------------------------------------------------------
// FromGin
// ---------------------------------------------------------------------------

func newSessionRouter(setup func(c *gin.Context), capture *Context) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))))
	r.GET("/", func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		*capture = FromGin(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestFromGin_Anonymous(t *testing.T) {
	var got Context
	r := newSessionRouter(nil, &got)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.1.1:5555"
	req.Header.Set("User-Agent", "test-agent")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, got.Authenticated())
	assert.Equal(t, "10.1.1.1", got.IPAddress)
	assert.Equal(t, "test-agent", got.UserAgent)
}

func TestFromGin_SessionUserAndResolvedIP(t *testing.T) {
	var got Context
	r := newSessionRouter(func(c *gin.Context) {
		sessions.Default(c).Set("user_id", uint(42))
		c.Set(ClientIPKey, "203.0.113.5")
	}, &got)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.1.1:5555"
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, got.Authenticated())
	assert.Equal(t, uint(42), *got.UserID)
	assert.Equal(t, "203.0.113.5", got.IPAddress)
	assert.Equal(t, "", got.UserAgent)
}
