// Package activity writes the user-attributed audit trail.
//
// An entry exists if and only if a principal is authenticated; anonymous calls are silent no-ops.
// Persistence failures are logged and counted but never surface to the caller, so the audit write
// cannot fail the request that triggered it.
package activity

import (
	"context"
	"strings"
	"time"

	"stocklease/internal/models"
	"stocklease/internal/telemetry"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Context is the per-request ambient data an entry is tagged with.
type Context struct {
	UserID    *uint // nil when nobody is logged in
	IPAddress string
	UserAgent string
}

// Authenticated reports whether a principal is present.
func (c Context) Authenticated() bool {
	return c.UserID != nil
}

// Store persists entries.
type Store interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
}

type Recorder struct {
	store  Store
	now    func() time.Time
	logger zerolog.Logger
}

type Option func(*Recorder)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// WithLogger overrides the logger used for write failures.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

func NewRecorder(store Store, opts ...Option) *Recorder {
	r := &Recorder{
		store:  store,
		now:    time.Now,
		logger: log.Logger.With().Str("module", "activity").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends an entry for action. An empty description is stored as absent.
func (r *Recorder) Record(ctx context.Context, actx Context, action, description string) {
	if r == nil || r.store == nil || !actx.Authenticated() {
		return
	}

	action = strings.TrimSpace(action)
	if action == "" {
		r.logger.Warn().Uint("user_id", *actx.UserID).Msg("activity action is empty, entry skipped")
		return
	}

	entry := &models.ActivityLog{
		UserID:    *actx.UserID,
		Action:    action,
		IPAddress: actx.IPAddress,
		UserAgent: actx.UserAgent,
		CreatedAt: r.now(),
	}
	if description != "" {
		entry.Description = &description
	}

	if err := r.store.Create(ctx, entry); err != nil {
		telemetry.ActivityWriteFailuresTotal.Inc()
		r.logger.Error().
			Err(err).
			Uint("user_id", entry.UserID).
			Str("action", action).
			Msg("failed to write activity log entry")
		return
	}
	telemetry.ActivityEntriesTotal.WithLabelValues(action).Inc()
}
