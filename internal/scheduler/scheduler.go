// Package scheduler runs recurring in-process jobs.
//
// Each job gets its own ticker: it runs once when the scheduler starts, then every interval, until
// the context is cancelled or Stop is called. A panicking job is recovered, logged and counted,
// and keeps its schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stocklease/internal/telemetry"

	"github.com/rs/zerolog/log"
)

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type entry struct {
	job      Job
	interval time.Duration
}

type Scheduler struct {
	mu      sync.Mutex
	entries []entry
	stopCh  chan struct{}
	stopped bool
	wg      sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{stopCh: make(chan struct{})}
}

// Every registers job to run at interval. A non-positive interval leaves the job disabled.
func (s *Scheduler) Every(interval time.Duration, job Job) {
	if interval <= 0 {
		log.Info().Str("job", job.Name()).Msg("scheduled job disabled")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{job: job, interval: interval})
}

// Jobs returns the names of the registered jobs in registration order.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		names = append(names, e.job.Name())
	}
	return names
}

// Run starts every job and blocks until ctx is cancelled or Stop is called.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	entries := append([]entry(nil), s.entries...)
	s.mu.Unlock()

	for _, e := range entries {
		s.wg.Add(1)
		go s.loop(ctx, e)
	}

	select {
	case <-ctx.Done():
	case <-s.stopCh:
	}
	s.wg.Wait()
	return nil
}

// Stop signals all job loops to exit. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		close(s.stopCh)
	}
}

func (s *Scheduler) loop(ctx context.Context, e entry) {
	defer s.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	log.Info().Str("job", e.job.Name()).Dur("interval", e.interval).Msg("scheduled job started")

	runOnce(ctx, e.job)
	for {
		select {
		case <-ticker.C:
			runOnce(ctx, e.job)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func runOnce(ctx context.Context, job Job) {
	name := job.Name()
	start := time.Now()

	err := safeRun(ctx, job)
	telemetry.JobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		telemetry.JobRunsTotal.WithLabelValues(name, "success").Inc()
	case isPanic(err):
		telemetry.JobRunsTotal.WithLabelValues(name, "panic").Inc()
		log.Error().Err(err).Str("job", name).Msg("recovered panic in scheduled job")
	default:
		telemetry.JobRunsTotal.WithLabelValues(name, "error").Inc()
		log.Error().Err(err).Str("job", name).Msg("scheduled job failed")
	}
}

type panicError struct{ value any }

func (p panicError) Error() string { return fmt.Sprintf("panic: %v", p.value) }

func isPanic(err error) bool {
	_, ok := err.(panicError)
	return ok
}

func safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	return job.Run(ctx)
}
