package ingestion

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/guttosm/naftapulse/internal/domain/models"
)

// Schema maps feed columns to Observation fields.
//
// Feeds disagree on column names: the daily check history carries
// fecha_chequeo/precio, the USD history fecha_chequeo/price_usd and the
// official dataset fecha_vigencia/precio plus a producto column.
type Schema struct {
	VendorColumn    string
	DateColumn      string
	PriceColumn     string
	LocationColumn  string // optional
	ProductColumn   string // optional
	ProductFilter   string // case-insensitive substring, only used with ProductColumn
	VariationColumn string // optional, e.g. "%_variacion"
	Decimal         DecimalMark
}

// DecimalMark selects how ParseNumber reads ',' and '.'.
type DecimalMark string

const (
	// DecimalAuto treats the rightmost of ',' and '.' as the decimal mark;
	// a lone ',' is read as a decimal comma.
	DecimalAuto DecimalMark = ""
	// DecimalPoint reads '.' as the decimal mark and drops ',' grouping ("1,234.56").
	DecimalPoint DecimalMark = "."
	// DecimalComma reads ',' as the decimal mark and drops '.' grouping ("1.234,56").
	DecimalComma DecimalMark = ","
)

// Known feed schemas.
var (
	SchemaARS = Schema{
		VendorColumn:    DefaultVendorColumn,
		DateColumn:      "fecha_chequeo",
		PriceColumn:     "precio",
		LocationColumn:  "localidad",
		VariationColumn: "%_variacion",
		Decimal:         DecimalPoint,
	}
	SchemaUSD = Schema{
		VendorColumn:   DefaultVendorColumn,
		DateColumn:     "fecha_chequeo",
		PriceColumn:    "price_usd",
		LocationColumn: "localidad",
		Decimal:        DecimalPoint,
	}
	SchemaOfficial = Schema{
		VendorColumn:   DefaultVendorColumn,
		DateColumn:     "fecha_vigencia",
		PriceColumn:    "precio",
		LocationColumn: "localidad",
		ProductColumn:  "producto",
		ProductFilter:  "Nafta (súper) entre 92 y 95 Ron",
		Decimal:        DecimalComma,
	}
)

// ToObservations converts raw records into Observations sorted by day.
//
// Records with an unparseable date or price, or not matching the product
// filter, are skipped; the number skipped is returned alongside.
// Records sharing a day keep their input order.
func ToObservations(records []models.RawRecord, schema Schema) ([]models.Observation, int) {
	out := make([]models.Observation, 0, len(records))
	skipped := 0

	for _, rec := range records {
		if !schema.matchesProduct(rec) {
			skipped++
			continue
		}
		obs, err := recordToObservation(rec, schema)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, obs)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	return out, skipped
}

func (s Schema) matchesProduct(rec models.RawRecord) bool {
	if s.ProductColumn == "" || s.ProductFilter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec[s.ProductColumn]), strings.ToLower(s.ProductFilter))
}

// recordToObservation is strict about date and price, tolerant about the rest.
func recordToObservation(rec models.RawRecord, schema Schema) (models.Observation, error) {
	var o models.Observation

	d, err := ParseDay(rec[schema.DateColumn])
	if err != nil {
		return o, fmt.Errorf("column %s: %w", schema.DateColumn, err)
	}
	o.Date = d

	p, err := ParseNumber(rec[schema.PriceColumn], schema.Decimal)
	if err != nil {
		return o, fmt.Errorf("column %s: %w", schema.PriceColumn, err)
	}
	o.Price = p

	o.Vendor = rec[schema.VendorColumn]
	if schema.LocationColumn != "" {
		o.Location = rec[schema.LocationColumn]
	}

	if schema.VariationColumn != "" {
		if v, err := ParseNumber(rec[schema.VariationColumn], schema.Decimal); err == nil {
			o.Variation = v
			o.HasVariation = true
		}
	}

	return o, nil
}

// ParseNumber parses a price or variation written with the given decimal
// mark. Non-finite values (pandas writes "nan" for missing prices) are rejected.
func ParseNumber(s string, mark DecimalMark) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}

	switch mark {
	case DecimalPoint:
		s = strings.ReplaceAll(s, ",", "")
	case DecimalComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	default:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %v", err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}
