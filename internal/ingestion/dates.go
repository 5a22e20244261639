package ingestion

import (
	"fmt"
	"strings"
	"time"
)

// dayLayouts are the date formats seen across feeds, tried in order.
var dayLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
}

// NormalizeDate reduces t to its calendar day anchored at 12:00 UTC.
//
// All comparisons and arithmetic on observation dates happen on values
// produced here, so a time-of-day or zone offset can never shift a day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// ParseDay parses a feed timestamp ("2025-03-01", "2025-03-01 14:05:00",
// "2025-03-01T14:05:00", "01/03/2025 14:05") into a normalized day.
// Any time-of-day component is discarded before parsing.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dayLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return NormalizeDate(d), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
