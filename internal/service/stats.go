package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/guttosm/naftapulse/internal/domain/models"
	"github.com/guttosm/naftapulse/internal/ingestion"
	"github.com/guttosm/naftapulse/internal/logger"
	"github.com/guttosm/naftapulse/internal/stats"
)

// Archive receives every successful snapshot. storage.SnapshotRepository satisfies it.
type Archive interface {
	UpsertSnapshot(ctx context.Context, currency string, checkDate time.Time, snap *models.Snapshot) error
}

// Options configures the pipeline of a StatsService.
type Options struct {
	VendorFilter string
	Currency     string
	Schema       ingestion.Schema
	Stats        stats.Options
}

// State is what the service remembers between refresh cycles.
//
// A failed cycle keeps Snapshot and Observations from the last success
// and only updates LastErr and AttemptedAt. Restored is set while the
// snapshot is one read back from the archive at startup.
type State struct {
	Snapshot     *models.Snapshot
	Observations []models.Observation
	LastErr      error
	RefreshedAt  time.Time
	AttemptedAt  time.Time
	Restored     bool
}

// Stale reports whether the held snapshot predates the last failed attempt
// or was restored from the archive and not yet confirmed by a refresh.
func (s State) Stale() bool {
	return s.Snapshot != nil && (s.LastErr != nil || s.Restored)
}

// StatsService runs the fetch → parse → compute pipeline and holds its result.
type StatsService interface {
	Refresh(ctx context.Context) (*models.Snapshot, error)
	State() State
	Series(days int) []models.SeriesPoint
	Currency() string
}

// Option customizes a StatsService.
type Option func(*statsService)

// WithArchive stores each successful snapshot in a.
func WithArchive(a Archive) Option { return func(s *statsService) { s.archive = a } }

// WithMetrics records refresh outcomes in m.
func WithMetrics(m *Metrics) Option { return func(s *statsService) { s.metrics = m } }

// WithInitialSnapshot serves snap, the last archived one produced by a
// refresh at refreshedAt, until the first refresh succeeds. It carries no
// observations, so Series stays empty.
func WithInitialSnapshot(snap *models.Snapshot, refreshedAt time.Time) Option {
	return func(s *statsService) {
		if snap != nil {
			s.state = State{Snapshot: snap, RefreshedAt: refreshedAt, Restored: true}
		}
	}
}

// WithClock overrides the wall clock used as the "as of" day.
func WithClock(now func() time.Time) Option { return func(s *statsService) { s.now = now } }

type statsService struct {
	fetcher ingestion.Fetcher
	opts    Options
	archive Archive
	metrics *Metrics
	now     func() time.Time

	refreshMu sync.Mutex // serializes whole refresh cycles

	mu    sync.RWMutex
	state State
}

func NewStatsService(f ingestion.Fetcher, opts Options, options ...Option) StatsService {
	s := &statsService{fetcher: f, opts: opts, now: time.Now}
	for _, o := range options {
		o(s)
	}
	return s
}

// Refresh runs one full cycle and returns the new snapshot.
//
// Errors:
//   - ingestion.ErrTransport (*ingestion.TransportError): the feed could not be fetched.
//   - ingestion.ErrEmptyResult: nothing matched the vendor.
//
// On error the previous snapshot stays in State. Archive failures are logged
// and do not fail the cycle.
func (s *statsService) Refresh(ctx context.Context) (*models.Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	log := logger.Component("stats")
	start := time.Now()
	now := s.now()

	obs, err := ingestion.Load(ctx, s.fetcher, s.opts.VendorFilter, s.opts.Schema)
	if err != nil {
		s.mu.Lock()
		s.state.LastErr = err
		s.state.AttemptedAt = now
		s.mu.Unlock()

		s.observe(outcomeFor(err), time.Since(start), nil)
		log.Error().Err(err).Str("vendor", s.opts.VendorFilter).Dur("elapsed", time.Since(start)).Msg("refresh failed")
		return nil, err
	}

	snap := stats.Compute(obs, now, s.opts.Stats)
	if perr := snap.Err(); perr != nil {
		log.Warn().Err(perr).Str("vendor", snap.Vendor).Msg("undefined percentage in snapshot")
	}

	s.mu.Lock()
	s.state = State{
		Snapshot:     snap,
		Observations: obs,
		RefreshedAt:  now,
		AttemptedAt:  now,
	}
	s.mu.Unlock()

	if s.archive != nil {
		if err := s.archive.UpsertSnapshot(ctx, s.opts.Currency, now, snap); err != nil {
			log.Error().Err(err).Msg("archive snapshot failed")
		}
	}

	s.observe(outcomeOK, time.Since(start), snap)
	log.Info().
		Str("vendor", snap.Vendor).
		Float64("price", snap.Current.Price).
		Int("observations", snap.Observations).
		Bool("year_fallback", snap.YearFallback).
		Dur("elapsed", time.Since(start)).
		Msg("refresh done")

	return snap, nil
}

func (s *statsService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Series returns chart points of the last successful refresh.
func (s *statsService) Series(days int) []models.SeriesPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.Series(s.state.Observations, days)
}

func (s *statsService) Currency() string { return s.opts.Currency }

func (s *statsService) observe(outcome string, elapsed time.Duration, snap *models.Snapshot) {
	if s.metrics == nil {
		return
	}
	s.metrics.refreshes.WithLabelValues(outcome).Inc()
	s.metrics.duration.Observe(elapsed.Seconds())
	if snap == nil {
		return
	}
	s.metrics.lastSuccess.SetToCurrentTime()
	s.metrics.observations.Set(float64(snap.Observations))
	s.metrics.price.WithLabelValues(snap.Vendor, s.opts.Currency).Set(snap.Current.Price)
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ingestion.ErrTransport):
		return outcomeTransport
	case errors.Is(err, ingestion.ErrEmptyResult):
		return outcomeEmpty
	default:
		return outcomeError
	}
}
