package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guttosm/naftapulse/config"
	"github.com/guttosm/naftapulse/internal/api"
	"github.com/guttosm/naftapulse/internal/ingestion"
	"github.com/guttosm/naftapulse/internal/logger"
	"github.com/guttosm/naftapulse/internal/service"
	"github.com/guttosm/naftapulse/internal/stats"
	"github.com/guttosm/naftapulse/internal/storage"
)

// restoreTimeout bounds the startup read of the last archived snapshot.
const restoreTimeout = 5 * time.Second

// Application is everything the api mode needs to run.
type Application struct {
	Router    *gin.Engine
	Service   service.StatsService
	Refresher *service.Refresher
}

// OneShot is everything the once mode needs. Archive is nil unless STORE_ENABLED is set.
type OneShot struct {
	Service service.StatsService
	Archive storage.SnapshotRepository
}

// InitializeApp wires the application from config.AppConfig.
//
// Responsibilities:
//   - Builds the HTTP fetcher and the stats pipeline.
//   - Connects to PostgreSQL and attaches the snapshot archive when STORE_ENABLED is set;
//     the last archived snapshot is served until the first refresh succeeds.
//   - Registers Prometheus collectors on a private registry exposed at /metrics.
//   - Configures the Gin router, health and readiness probes.
//
// The returned cleanup closes the database connection, if any.
func InitializeApp() (*Application, func(), error) {
	cfg := config.AppConfig

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	options := []service.Option{service.WithMetrics(service.NewMetrics(reg))}

	db, repo, err := openArchive(cfg)
	if err != nil {
		return nil, nil, err
	}
	if repo != nil {
		options = append(options, service.WithArchive(repo), restore(repo, cfg.Feed))
	}

	svc := NewStatsService(cfg, options...)

	router := api.NewRouter(api.NewHandler(svc), api.RouterOptions{
		RateLimit:      cfg.Server.RateLimit,
		RequestTimeout: cfg.Server.RequestTimeout,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	var dbPing func() error
	if db != nil {
		dbPing = db.Ping
	}
	api.NewHealthHandler(func() bool { return svc.State().Snapshot != nil }, dbPing).Register(router)

	return &Application{
		Router:    router,
		Service:   svc,
		Refresher: service.NewRefresher(svc, cfg.Refresh.Interval),
	}, closer(db), nil
}

// InitializeOnce wires the once mode from config.AppConfig: the pipeline and,
// when STORE_ENABLED is set, the archive it writes to.
func InitializeOnce() (*OneShot, func(), error) {
	cfg := config.AppConfig

	db, repo, err := openArchive(cfg)
	if err != nil {
		return nil, nil, err
	}

	var options []service.Option
	if repo != nil {
		options = append(options, service.WithArchive(repo))
	}
	return &OneShot{Service: NewStatsService(cfg, options...), Archive: repo}, closer(db), nil
}

// openArchive connects to PostgreSQL when the store is enabled. Both results are nil otherwise.
func openArchive(cfg config.Config) (*sql.DB, storage.SnapshotRepository, error) {
	if !cfg.Store.Enabled {
		return nil, nil, nil
	}
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	return db, storage.NewSnapshotRepository(db), nil
}

// restore reads the last archived snapshot into a warm-start option.
// Failures only cost the warm start.
func restore(repo storage.SnapshotRepository, feed config.FeedConfig) service.Option {
	ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
	defer cancel()

	arch, err := repo.LatestSnapshot(ctx, feed.VendorFilter, feed.Currency)
	if err != nil {
		logger.L().Warn().Err(err).Msg("could not restore archived snapshot")
		return service.WithInitialSnapshot(nil, time.Time{})
	}
	if arch == nil {
		return service.WithInitialSnapshot(nil, time.Time{})
	}
	logger.L().Info().
		Str("vendor", arch.Vendor).
		Time("refreshed_at", arch.RefreshedAt).
		Msg("restored archived snapshot")
	return service.WithInitialSnapshot(arch.Snapshot, arch.RefreshedAt)
}

func closer(db *sql.DB) func() {
	return func() {
		if db != nil {
			_ = db.Close()
		}
	}
}

// NewStatsService builds the fetch → compute pipeline described by cfg.Feed.
func NewStatsService(cfg config.Config, options ...service.Option) service.StatsService {
	fetcher := ingestion.NewHTTPFetcher(cfg.Feed.URL, cfg.Refresh.FetchTimeout, cfg.Refresh.FetchRetries, cfg.Refresh.RetryWait)
	log := logger.Component("app")
	log.Info().
		Str("feed", fetcher.URL()).
		Str("vendor", cfg.Feed.VendorFilter).
		Str("currency", cfg.Feed.Currency).
		Msg("pipeline configured")
	return service.NewStatsService(fetcher, ServiceOptions(cfg.Feed), options...)
}

// decimalMarks maps DECIMAL_MARK values onto the parser's marks; "auto" and
// unknown values select ingestion.DecimalAuto.
var decimalMarks = map[string]ingestion.DecimalMark{
	"point": ingestion.DecimalPoint,
	"comma": ingestion.DecimalComma,
}

// ServiceOptions maps the feed configuration onto pipeline options.
//
// variation_column counting needs a variation column; without one the
// price_change mode is used.
func ServiceOptions(feed config.FeedConfig) service.Options {
	mode := stats.UpdateCountMode(feed.UpdateCountMode)
	if mode == stats.CountVariationColumn && feed.VariationColumn == "" {
		mode = stats.CountPriceChanges
	}

	return service.Options{
		VendorFilter: feed.VendorFilter,
		Currency:     feed.Currency,
		Schema: ingestion.Schema{
			VendorColumn:    feed.VendorColumn,
			DateColumn:      feed.DateColumn,
			PriceColumn:     feed.PriceColumn,
			LocationColumn:  feed.LocationColumn,
			ProductColumn:   feed.ProductColumn,
			ProductFilter:   feed.ProductFilter,
			VariationColumn: feed.VariationColumn,
			Decimal:         decimalMarks[feed.DecimalMark],
		},
		Stats: stats.Options{
			LocationFallback: feed.LocationFallback,
			UpdateCount:      mode,
		},
	}
}
