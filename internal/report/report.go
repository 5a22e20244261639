// Package report renders a Snapshot as a plain-text summary for the CLI.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/naftapulse/internal/domain/models"
)

const dateLayout = "02/01/2006"

// FormatPrice renders v with two decimals in the convention of currency:
// ARS uses "1.234,56", anything else "1,234.56".
func FormatPrice(v float64, currency string) string {
	group, decimal := ",", "."
	if strings.EqualFold(currency, "ARS") {
		group, decimal = ".", ","
	}

	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if v < 0 && s != "0.00" {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(group)
		}
		b.WriteRune(r)
	}
	b.WriteString(decimal)
	b.WriteString(frac)
	return b.String()
}

// FormatDate renders a day as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

// Render builds the multi-line summary of snap.
func Render(snap *models.Snapshot, currency string) string {
	if snap == nil {
		return "no data\n"
	}

	var b strings.Builder
	sep := strings.Repeat("-", 40)

	fmt.Fprintf(&b, "%s\n", snap.Vendor)
	fmt.Fprintf(&b, "%s\n", sep)
	fmt.Fprintf(&b, "Current price : %s %s (%s)\n", currency, FormatPrice(snap.Current.Price, currency), FormatDate(snap.Current.Date))
	fmt.Fprintf(&b, "Location      : %s\n", snap.Location)
	fmt.Fprintf(&b, "Daily change  : %s\n", formatChange(snap.Daily, currency))
	fmt.Fprintf(&b, "30-day change : %s\n", formatChange(snap.Monthly, currency))
	fmt.Fprintf(&b, "%s\n", sep)

	scope := "year"
	if snap.YearFallback {
		scope = "all history"
	}
	fmt.Fprintf(&b, "Max (%s) : %s %s (%s)\n", scope, currency, FormatPrice(snap.YearMax.Price, currency), FormatDate(snap.YearMax.Date))
	fmt.Fprintf(&b, "Min (%s) : %s %s (%s)\n", scope, currency, FormatPrice(snap.YearMin.Price, currency), FormatDate(snap.YearMin.Date))
	fmt.Fprintf(&b, "Total change   : %s\n", formatChange(snap.Total, currency))
	fmt.Fprintf(&b, "Price updates  : %d\n", snap.UpdateCount)

	return b.String()
}

func formatChange(c models.Change, currency string) string {
	if !c.Available {
		return "insufficient history"
	}

	arrow := "="
	switch {
	case c.Delta > 0:
		arrow = "▲"
	case c.Delta < 0:
		arrow = "▼"
	}

	pct := "n/a"
	if c.Percent != nil {
		pct = fmt.Sprintf("%+.2f%%", *c.Percent)
	}
	return fmt.Sprintf("%s %s %s (%s) since %s", arrow, currency, FormatPrice(c.Delta, currency), pct, FormatDate(c.Since))
}
