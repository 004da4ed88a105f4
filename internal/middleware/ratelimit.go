package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"stocklease/internal/clientip"
	"stocklease/internal/telemetry"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL   = 10 * time.Minute
	limiterSweepSize = 1024
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	perMinute int
	burst     int

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		perMinute: perMinute,
		burst:     burst,
		entries:   make(map[string]*limiterEntry),
	}
}

// Allow reports whether key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if len(rl.entries) >= limiterSweepSize {
		rl.sweep(now)
	}

	e, ok := rl.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(float64(rl.perMinute)/60.0), rl.burst)}
		rl.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// sweep drops buckets idle for longer than the TTL. Caller holds rl.mu.
func (rl *RateLimiter) sweep(now time.Time) int {
	removed := 0
	cutoff := now.Add(-limiterIdleTTL)
	for key, e := range rl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(rl.entries, key)
			removed++
		}
	}
	return removed
}

// RateLimit throttles requests per transport peer with 429 responses. Forwarding headers are
// client-controlled and never pick the bucket.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := clientip.PeerAddr(c.Request)
		if key == "" {
			key = clientip.Unknown
		}

		if !rl.Allow(key) {
			telemetry.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many requests",
				"retry_after": 60,
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.perMinute))
		c.Next()
	}
}
