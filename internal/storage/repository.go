package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/naftapulse/internal/domain/models"
	"github.com/guttosm/naftapulse/internal/stats"
	pq "github.com/lib/pq"
)

// ErrSchemaMissing means the price_snapshots table does not exist (migrations not applied).
var ErrSchemaMissing = errors.New("price_snapshots table missing; run migrations")

// pqUndefinedTable is the SQLSTATE for "relation does not exist".
const pqUndefinedTable = "42P01"

// SnapshotRepository defines contract for DB operations on archived snapshots.
type SnapshotRepository interface {
	UpsertSnapshot(ctx context.Context, currency string, refreshedAt time.Time, snap *models.Snapshot) error
	LatestSnapshot(ctx context.Context, vendor, currency string) (*ArchivedSnapshot, error)
	HasCheckForDate(ctx context.Context, vendor, currency string, checkDate time.Time) (bool, error)
}

// ArchivedSnapshot is a snapshot read back from the archive together with
// the moment the refresh that produced it ran.
type ArchivedSnapshot struct {
	*models.Snapshot
	RefreshedAt time.Time
}

type snapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// UpsertSnapshot records (or replaces) the snapshot of one vendor for the
// check day of refreshedAt. Re-running a refresh on the same day overwrites
// that day's row.
func (r *snapshotRepository) UpsertSnapshot(ctx context.Context, currency string, refreshedAt time.Time, snap *models.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("upsert snapshot: nil snapshot")
	}

	var dailyDelta, dailyBaseline, dailySince interface{}
	if snap.Daily.Available {
		dailyDelta = snap.Daily.Delta
		dailyBaseline = snap.Daily.Baseline
		dailySince = toDate(snap.Daily.Since)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO price_snapshots (
			vendor, currency, check_date, price_date, price, location,
			daily_delta, daily_percent, daily_baseline, daily_since,
			monthly_delta, monthly_percent, monthly_baseline, monthly_since,
			year_max, year_max_date, year_min, year_min_date,
			total_delta, total_percent, total_baseline, total_since,
			update_count, observations, base_size, year_fallback, refreshed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
		ON CONFLICT (vendor, currency, check_date)
		DO UPDATE SET price_date = EXCLUDED.price_date,
					  price = EXCLUDED.price,
					  location = EXCLUDED.location,
					  daily_delta = EXCLUDED.daily_delta,
					  daily_percent = EXCLUDED.daily_percent,
					  daily_baseline = EXCLUDED.daily_baseline,
					  daily_since = EXCLUDED.daily_since,
					  monthly_delta = EXCLUDED.monthly_delta,
					  monthly_percent = EXCLUDED.monthly_percent,
					  monthly_baseline = EXCLUDED.monthly_baseline,
					  monthly_since = EXCLUDED.monthly_since,
					  year_max = EXCLUDED.year_max,
					  year_max_date = EXCLUDED.year_max_date,
					  year_min = EXCLUDED.year_min,
					  year_min_date = EXCLUDED.year_min_date,
					  total_delta = EXCLUDED.total_delta,
					  total_percent = EXCLUDED.total_percent,
					  total_baseline = EXCLUDED.total_baseline,
					  total_since = EXCLUDED.total_since,
					  update_count = EXCLUDED.update_count,
					  observations = EXCLUDED.observations,
					  base_size = EXCLUDED.base_size,
					  year_fallback = EXCLUDED.year_fallback,
					  refreshed_at = EXCLUDED.refreshed_at
	`,
		snap.Vendor, currency, toDate(refreshedAt), toDate(snap.Current.Date), snap.Current.Price, snap.Location,
		dailyDelta, nullPercent(snap.Daily.Percent), dailyBaseline, dailySince,
		snap.Monthly.Delta, nullPercent(snap.Monthly.Percent), snap.Monthly.Baseline, toDate(snap.Monthly.Since),
		snap.YearMax.Price, toDate(snap.YearMax.Date), snap.YearMin.Price, toDate(snap.YearMin.Date),
		snap.Total.Delta, nullPercent(snap.Total.Percent), snap.Total.Baseline, toDate(snap.Total.Since),
		snap.UpdateCount, snap.Observations, snap.BaseSize, snap.YearFallback, refreshedAt.UTC(),
	)
	return wrapPQ(err)
}

// HasCheckForDate reports whether a snapshot was already archived for a check day.
// vendor matches as a substring, like the feed's vendor filter.
func (r *snapshotRepository) HasCheckForDate(ctx context.Context, vendor, currency string, checkDate time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM price_snapshots WHERE strpos(vendor, $1) > 0 AND currency = $2 AND check_date = $3)`,
		vendor, currency, toDate(checkDate),
	).Scan(&exists)
	if err != nil {
		return false, wrapPQ(err)
	}
	return exists, nil
}

// LatestSnapshot returns the most recent archived snapshot whose vendor
// contains vendor, or nil when none exists.
//
// A stored NULL percentage of an available change is restored as
// stats.ErrZeroBaseline, the only reason the engine leaves one undefined.
func (r *snapshotRepository) LatestSnapshot(ctx context.Context, vendor, currency string) (*ArchivedSnapshot, error) {
	var (
		s                                  models.Snapshot
		refreshedAt                        time.Time
		dailyDelta, dailyPct, dailyBase    sql.NullFloat64
		monthlyPct, totalPct               sql.NullFloat64
		dailySince, monthlySince, totSince sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT vendor, price_date, price, location,
			   daily_delta, daily_percent, daily_baseline, daily_since,
			   monthly_delta, monthly_percent, monthly_baseline, monthly_since,
			   year_max, year_max_date, year_min, year_min_date,
			   total_delta, total_percent, total_baseline, total_since,
			   update_count, observations, base_size, year_fallback,
			   check_date, refreshed_at
		FROM price_snapshots
		WHERE strpos(vendor, $1) > 0 AND currency = $2
		ORDER BY check_date DESC, refreshed_at DESC
		LIMIT 1
	`, vendor, currency).Scan(
		&s.Vendor, &s.Current.Date, &s.Current.Price, &s.Location,
		&dailyDelta, &dailyPct, &dailyBase, &dailySince,
		&s.Monthly.Delta, &monthlyPct, &s.Monthly.Baseline, &monthlySince,
		&s.YearMax.Price, &s.YearMax.Date, &s.YearMin.Price, &s.YearMin.Date,
		&s.Total.Delta, &totalPct, &s.Total.Baseline, &totSince,
		&s.UpdateCount, &s.Observations, &s.BaseSize, &s.YearFallback,
		&s.AsOf, &refreshedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapPQ(err)
	}

	if dailyDelta.Valid {
		s.Daily = models.Change{Available: true, Delta: dailyDelta.Float64, Baseline: dailyBase.Float64}
		restoreChange(&s.Daily, dailyPct, dailySince)
	}
	s.Monthly.Available = true
	restoreChange(&s.Monthly, monthlyPct, monthlySince)
	s.Total.Available = true
	restoreChange(&s.Total, totalPct, totSince)

	s.Current.Date = noon(s.Current.Date)
	s.YearMax.Date = noon(s.YearMax.Date)
	s.YearMin.Date = noon(s.YearMin.Date)
	s.AsOf = noon(s.AsOf)

	return &ArchivedSnapshot{Snapshot: &s, RefreshedAt: refreshedAt.UTC()}, nil
}

func restoreChange(c *models.Change, pct sql.NullFloat64, since sql.NullTime) {
	c.Percent = fromNull(pct)
	if c.Percent == nil {
		c.PercentErr = stats.ErrZeroBaseline
	}
	if since.Valid {
		c.Since = noon(since.Time)
	}
}

// noon anchors a DATE read back from Postgres at 12:00 UTC, like every
// other calendar day in the pipeline.
func noon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// toDate strips the clock so DATE columns always receive the calendar day.
func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func nullPercent(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func fromNull(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func wrapPQ(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUndefinedTable {
		return fmt.Errorf("%w: %v", ErrSchemaMissing, err)
	}
	return err
}
