// Package stats derives price statistics from a day-sorted observation sequence.
//
// Everything here is pure: no I/O, no clock reads (the reference day is an argument).
package stats

import (
	"errors"
	"time"

	"github.com/guttosm/naftapulse/internal/domain/models"
)

// ErrZeroBaseline is reported instead of a percentage whose baseline is zero.
var ErrZeroBaseline = errors.New("percentage baseline is zero")

// monthWindow is the look-back of the monthly change.
const monthWindow = 30

// UpdateCountMode selects how price updates are counted.
type UpdateCountMode string

const (
	// CountPriceChanges counts adjacent base-set pairs whose prices differ.
	CountPriceChanges UpdateCountMode = "price_change"
	// CountVariationColumn counts base-set rows whose variation column is non-zero.
	CountVariationColumn UpdateCountMode = "variation_column"
)

// Options tunes Compute.
type Options struct {
	// LocationFallback is reported when the latest observation has no location.
	LocationFallback string
	// UpdateCount defaults to CountPriceChanges.
	UpdateCount UpdateCountMode
}

// Compute builds a Snapshot over obs, which must be sorted ascending by day.
// asOf selects the calendar year of the annual statistics.
//
// It returns nil for an empty sequence and never fails otherwise: an
// undefined percentage is reported through Change.PercentErr.
func Compute(obs []models.Observation, asOf time.Time, opts Options) *models.Snapshot {
	if len(obs) == 0 {
		return nil
	}

	last := len(obs) - 1
	cur := obs[last]

	snap := &models.Snapshot{
		Vendor:       cur.Vendor,
		Current:      point(cur),
		Location:     cur.Location,
		Observations: len(obs),
		AsOf:         normalize(asOf),
	}
	if snap.Location == "" {
		snap.Location = opts.LocationFallback
	}

	if len(obs) > 1 {
		snap.Daily = change(cur.Price, obs[last-1])
	}

	snap.Monthly = change(cur.Price, monthBaseline(obs))

	base, fallback := yearBase(obs, asOf)
	snap.BaseSize = len(base)
	snap.YearFallback = fallback

	snap.YearMax, snap.YearMin = extrema(base)
	snap.Total = change(cur.Price, base[0])
	snap.UpdateCount = countUpdates(base, opts.UpdateCount)

	return snap
}

// Percent returns change/baseline*100, or ErrZeroBaseline.
func Percent(change, baseline float64) (float64, error) {
	if baseline == 0 {
		return 0, ErrZeroBaseline
	}
	return change / baseline * 100, nil
}

func change(price float64, base models.Observation) models.Change {
	c := models.Change{
		Available: true,
		Delta:     price - base.Price,
		Baseline:  base.Price,
		Since:     normalize(base.Date),
	}
	if p, err := Percent(c.Delta, base.Price); err != nil {
		c.PercentErr = err
	} else {
		c.Percent = &p
	}
	return c
}

// monthBaseline scans backward from the latest observation for the first one
// at least monthWindow days older; the first observation is the fallback.
func monthBaseline(obs []models.Observation) models.Observation {
	target := normalize(obs[len(obs)-1].Date).AddDate(0, 0, -monthWindow)
	for i := len(obs) - 1; i >= 0; i-- {
		if !normalize(obs[i].Date).After(target) {
			return obs[i]
		}
	}
	return obs[0]
}

// yearBase keeps the observations of asOf's calendar year, or all of them
// when that year has none yet.
func yearBase(obs []models.Observation, asOf time.Time) ([]models.Observation, bool) {
	year := normalize(asOf).Year()
	var base []models.Observation
	for _, o := range obs {
		if normalize(o.Date).Year() == year {
			base = append(base, o)
		}
	}
	if len(base) == 0 {
		return obs, true
	}
	return base, false
}

// extrema returns the max and min of base; ties go to the earliest observation.
func extrema(base []models.Observation) (hi, lo models.PricePoint) {
	hi = point(base[0])
	lo = hi
	for _, o := range base[1:] {
		if o.Price > hi.Price {
			hi = point(o)
		}
		if o.Price < lo.Price {
			lo = point(o)
		}
	}
	return hi, lo
}

func point(o models.Observation) models.PricePoint {
	return models.PricePoint{Price: o.Price, Date: normalize(o.Date)}
}

func countUpdates(base []models.Observation, mode UpdateCountMode) int {
	if mode == CountVariationColumn && hasVariation(base) {
		n := 0
		for _, o := range base {
			if o.HasVariation && o.Variation != 0 {
				n++
			}
		}
		return n
	}

	n := 0
	for i := 1; i < len(base); i++ {
		if base[i].Price != base[i-1].Price {
			n++
		}
	}
	return n
}

func hasVariation(base []models.Observation) bool {
	for _, o := range base {
		if o.HasVariation {
			return true
		}
	}
	return false
}

// normalize mirrors ingestion.NormalizeDate so the engine stays correct even
// for observations built by hand.
func normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}
