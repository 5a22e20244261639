package models

import (
	"errors"
	"time"
)

// Change is a price delta against some earlier baseline.
//
// Available is false when there is not enough history to compare
// (e.g. a daily change over a single observation). Percent is nil when
// it could not be computed; PercentErr then holds the reason.
type Change struct {
	Available  bool
	Delta      float64
	Percent    *float64
	PercentErr error
	Baseline   float64
	Since      time.Time
}

// PricePoint pairs a price with the day it was observed.
type PricePoint struct {
	Price float64
	Date  time.Time
}

// Snapshot is the aggregate computed over one ordered observation sequence.
// It is built once per refresh cycle and never mutated afterwards.
//
// swagger:model Snapshot
type Snapshot struct {
	Vendor       string
	Current      PricePoint
	Location     string
	Daily        Change
	Monthly      Change
	YearMax      PricePoint
	YearMin      PricePoint
	Total        Change
	UpdateCount  int
	Observations int
	BaseSize     int
	YearFallback bool
	AsOf         time.Time
}

// Err joins the percent errors of every change in the snapshot.
// It returns nil when all percentages are defined.
func (s *Snapshot) Err() error {
	if s == nil {
		return nil
	}
	return errors.Join(s.Daily.PercentErr, s.Monthly.PercentErr, s.Total.PercentErr)
}

// SeriesPoint is one (label, value) pair handed to a chart renderer.
type SeriesPoint struct {
	Label string  `json:"label" example:"2025-03-01"`
	Value float64 `json:"value" example:"1425.5"`
}
