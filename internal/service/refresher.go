package service

import (
	"context"
	"time"

	"github.com/guttosm/naftapulse/internal/logger"
)

// Refresher re-runs the pipeline on every tick until its context ends.
type Refresher struct {
	svc      StatsService
	interval time.Duration
	ticks    <-chan time.Time
}

// NewRefresher builds a Refresher ticking every interval.
func NewRefresher(svc StatsService, interval time.Duration) *Refresher {
	return &Refresher{svc: svc, interval: interval}
}

// WithTicks replaces the internal ticker with ticks (used by tests).
func (r *Refresher) WithTicks(ticks <-chan time.Time) *Refresher {
	r.ticks = ticks
	return r
}

// Run refreshes once immediately, then on every tick.
// Failed cycles are already logged by the service; Run keeps going.
// It returns nil when ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	ticks := r.ticks
	if ticks == nil {
		t := time.NewTicker(r.interval)
		defer t.Stop()
		ticks = t.C
	}

	log := logger.Component("refresher")
	log.Info().Dur("interval", r.interval).Msg("refresher started")

	_, _ = r.svc.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("refresher stopped")
			return nil
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			_, _ = r.svc.Refresh(ctx)
		}
	}
}
