package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/naftapulse/internal/domain/models"
	"github.com/guttosm/naftapulse/internal/logger"
)

// Load runs the ingestion half of a refresh cycle:
// fetch the raw text, parse it, keep the vendor's rows and convert them
// into day-sorted Observations.
//
// Returns:
//   - []models.Observation: sorted ascending by day, never empty on success.
//   - error: a *TransportError when the text could not be fetched,
//     ErrEmptyResult when no usable record matched the vendor.
func Load(ctx context.Context, f Fetcher, vendorFilter string, schema Schema) ([]models.Observation, error) {
	start := time.Now()

	text, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	records := ParseWithColumn(text, schema.VendorColumn, vendorFilter)
	obs, skipped := ToObservations(records, schema)

	logger.L().Debug().
		Int("bytes", len(text)).
		Int("records", len(records)).
		Int("observations", len(obs)).
		Int("skipped", skipped).
		Dur("elapsed", time.Since(start)).
		Msg("feed parsed")

	if len(obs) == 0 {
		return nil, fmt.Errorf("vendor %q: %w", vendorFilter, ErrEmptyResult)
	}
	return obs, nil
}
