package dto

import (
	"time"

	"github.com/guttosm/naftapulse/internal/domain/models"
)

const dateLayout = "2006-01-02"

// ChangeResponse is one comparison (daily, monthly or annual) in a StatsResponse.
//
// When Available is false the other fields are zero. PercentError is set when
// the baseline price was zero and Percent is omitted.
type ChangeResponse struct {
	Available    bool     `json:"available" example:"true"`
	Delta        float64  `json:"delta" example:"-5"`
	Percent      *float64 `json:"percent,omitempty" example:"-4.55"`
	PercentError string   `json:"percent_error,omitempty"`
	Baseline     float64  `json:"baseline,omitempty" example:"110"`
	Since        string   `json:"since,omitempty" example:"2025-03-02"`
}

// PricePointResponse is a price with the day it was observed.
type PricePointResponse struct {
	Price float64 `json:"price" example:"105"`
	Date  string  `json:"date" example:"2025-03-03"`
}

// StatsResponse is the body of GET /api/v1/stats.
type StatsResponse struct {
	Vendor       string             `json:"vendor" example:"UNITECPROCOM SA"`
	Currency     string             `json:"currency" example:"ARS"`
	Location     string             `json:"location" example:"San Isidro"`
	Current      PricePointResponse `json:"current"`
	Daily        ChangeResponse     `json:"daily"`
	Monthly      ChangeResponse     `json:"monthly"`
	Annual       ChangeResponse     `json:"annual"`
	YearMax      PricePointResponse `json:"year_max"`
	YearMin      PricePointResponse `json:"year_min"`
	UpdateCount  int                `json:"update_count" example:"4"`
	Observations int                `json:"observations" example:"120"`
	BaseSize     int                `json:"year_observations" example:"40"`
	YearFallback bool               `json:"year_fallback" example:"false"`
	AsOf         string             `json:"as_of" example:"2025-03-03"`
	Stale        bool               `json:"stale" example:"false"`
	Restored     bool               `json:"restored" example:"false"`
	LastError    string             `json:"last_error,omitempty"`
	RefreshedAt  time.Time          `json:"refreshed_at"`
}

// SeriesResponse is the body of GET /api/v1/series.
type SeriesResponse struct {
	Vendor   string               `json:"vendor" example:"UNITECPROCOM SA"`
	Currency string               `json:"currency" example:"ARS"`
	Points   []models.SeriesPoint `json:"points"`
}

// NewStatsResponse maps a snapshot onto the API contract.
func NewStatsResponse(snap *models.Snapshot, currency string) StatsResponse {
	return StatsResponse{
		Vendor:       snap.Vendor,
		Currency:     currency,
		Location:     snap.Location,
		Current:      pricePoint(snap.Current),
		Daily:        change(snap.Daily),
		Monthly:      change(snap.Monthly),
		Annual:       change(snap.Total),
		YearMax:      pricePoint(snap.YearMax),
		YearMin:      pricePoint(snap.YearMin),
		UpdateCount:  snap.UpdateCount,
		Observations: snap.Observations,
		BaseSize:     snap.BaseSize,
		YearFallback: snap.YearFallback,
		AsOf:         day(snap.AsOf),
	}
}

func change(c models.Change) ChangeResponse {
	if !c.Available {
		return ChangeResponse{}
	}
	out := ChangeResponse{
		Available: true,
		Delta:     c.Delta,
		Percent:   c.Percent,
		Baseline:  c.Baseline,
		Since:     day(c.Since),
	}
	if c.PercentErr != nil {
		out.PercentError = c.PercentErr.Error()
	}
	return out
}

func pricePoint(p models.PricePoint) PricePointResponse {
	return PricePointResponse{Price: p.Price, Date: day(p.Date)}
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
