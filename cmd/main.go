package main

//
//  @title           naftapulse API
//  @version         1.0
//  @description     Fuel price tracker: fetches a CSV price feed, filters one vendor and exposes daily, monthly and annual statistics.
//  @termsOfService  https://github.com/guttosm/naftapulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/naftapulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        stats
//  @tag.description Price statistics and chart series
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/naftapulse/config"
	_ "github.com/guttosm/naftapulse/docs" // swagger docs
	"github.com/guttosm/naftapulse/internal/app"
	"github.com/guttosm/naftapulse/internal/domain/dto"
	"github.com/guttosm/naftapulse/internal/domain/models"
	"github.com/guttosm/naftapulse/internal/logger"
	"github.com/guttosm/naftapulse/internal/report"
	"github.com/guttosm/naftapulse/internal/service"
	"github.com/guttosm/naftapulse/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// runner is a background loop stopped by cancelling its context.
type runner interface {
	Run(ctx context.Context) error
}

func newServer(router http.Handler, port string) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// serve runs the HTTP server and the background loops until ctx is cancelled
// (SIGINT/SIGTERM) or one of them fails, then shuts the server down gracefully.
func serve(ctx context.Context, server *http.Server, loops ...runner) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.L().Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	for _, l := range loops {
		g.Go(func() error { return l.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.L().Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// onceOptions are the flags of the once mode.
type onceOptions struct {
	vendor string // archive lookup, matched as a substring
	asJSON bool
	force  bool
}

// runOnce refreshes a single time and writes the result to w,
// as a text report or as the JSON body of GET /api/v1/stats.
//
// With an archive, a day that was already checked is answered from the
// archive without fetching, unless opts.force is set.
func runOnce(ctx context.Context, svc service.StatsService, archive storage.SnapshotRepository, w io.Writer, opts onceOptions) error {
	snap, err := archived(ctx, svc, archive, opts)
	if err != nil {
		return err
	}
	if snap == nil {
		if snap, err = svc.Refresh(ctx); err != nil {
			return err
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewStatsResponse(snap, svc.Currency()))
	}

	_, err = io.WriteString(w, report.Render(snap, svc.Currency()))
	return err
}

func archived(ctx context.Context, svc service.StatsService, archive storage.SnapshotRepository, opts onceOptions) (*models.Snapshot, error) {
	if archive == nil || opts.force {
		return nil, nil
	}

	done, err := archive.HasCheckForDate(ctx, opts.vendor, svc.Currency(), time.Now())
	if err != nil || !done {
		return nil, err
	}

	arch, err := archive.LatestSnapshot(ctx, opts.vendor, svc.Currency())
	if err != nil || arch == nil {
		return nil, err
	}
	logger.L().Info().
		Str("vendor", opts.vendor).
		Time("refreshed_at", arch.RefreshedAt).
		Msg("already checked today, using archived snapshot (--force to refetch)")
	return arch.Snapshot, nil
}

// main is the entry point of the naftapulse application.
//
// Modes (selected via --mode flag):
//   - api:  Serves the REST API and refreshes the feed every REFRESH_INTERVAL.
//   - once: Refreshes once, prints a summary to stdout and exits (non-zero on failure).
//
// Flags:
//   - --mode: Execution mode ("api" or "once"). Default: "api".
//   - --port: Port for the API server. Defaults to SERVER_PORT.
//   - --json:  In once mode, print JSON instead of the text report.
//   - --force: In once mode, fetch even if today's check is already archived.
func main() {
	config.LoadConfig()
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api or once")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	asJSON := flag.Bool("json", false, "Print JSON in once mode")
	force := flag.Bool("force", false, "Refetch in once mode even if today is already archived")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "once":
		o, cleanup, err := app.InitializeOnce()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		opts := onceOptions{vendor: config.AppConfig.Feed.VendorFilter, asJSON: *asJSON, force: *force}
		err = runOnce(ctx, o.Service, o.Archive, os.Stdout, opts)
		cleanup()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("refresh failed")
		}

	case "api":
		a, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		err = serve(ctx, newServer(a.Router, *port), a.Refresher)
		cleanup()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("server stopped with error")
		}
		logger.L().Info().Msg("server exited gracefully")

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
