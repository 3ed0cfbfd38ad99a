package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job is one scheduled pass. The instant is passed in so runs are
// deterministic under test.
type Job func(ctx context.Context, now time.Time)

// Scheduler runs a job on a fixed interval until the context is cancelled.
// The sweep hangs off one of these; the job itself is re-entrant, so a slow
// run overlapping the next tick is harmless.
type Scheduler struct {
	name     string
	interval time.Duration
	job      Job
	logger   zerolog.Logger
}

// New creates a new Scheduler.
func New(name string, interval time.Duration, job Job, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger,
	}
}

// Start runs the loop. It fires once immediately, then on every tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().
		Str("job", s.name).
		Dur("interval", s.interval).
		Msg("scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.job(ctx, time.Now().UTC())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Str("job", s.name).Msg("scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.job(ctx, time.Now().UTC())
		}
	}
}
