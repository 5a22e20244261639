package models

import "time"

// RawRecord is one retained CSV data line keyed by header name.
//
// The column set comes from the header line, so it differs between feeds
// (e.g. {fecha_vigencia, precio} vs {fecha_chequeo, price_usd}).
type RawRecord map[string]string

// Observation is a typed, vendor-filtered price reading.
//
// Fields:
//   - Vendor: company/operator name as found in the feed.
//   - Date: calendar day, normalized to 12:00 UTC (see ingestion.NormalizeDate).
//   - Price: price in the feed's currency (ARS or USD, never mixed).
//   - Location: optional locality; empty when the feed has no such column.
//   - Variation: value of the optional "percent variation" column.
//   - HasVariation: whether Variation was present and parseable.
type Observation struct {
	Vendor       string
	Date         time.Time
	Price        float64
	Location     string
	Variation    float64
	HasVariation bool
}
