package ingestion

import (
	"strings"

	"github.com/guttosm/naftapulse/internal/domain/models"
)

// DefaultVendorColumn is the company/operator column of every known feed.
const DefaultVendorColumn = "empresa"

// Parse turns raw CSV text into records whose "empresa" column contains
// vendorFilter. See ParseWithColumn.
func Parse(text, vendorFilter string) []models.RawRecord {
	return ParseWithColumn(text, DefaultVendorColumn, vendorFilter)
}

// ParseWithColumn turns raw CSV text into an ordered slice of records.
//
// Rules:
//   - the input is trimmed and split on '\n'; blank lines are skipped;
//   - the first remaining line is the header, split with the same quote-aware tokenizer;
//   - data lines with fewer fields than the header are dropped silently;
//   - values lose one layer of surrounding quotes and are trimmed;
//   - a record is kept only if its vendorColumn contains vendorFilter; an empty
//     filter keeps every record, an empty vendor value matches only the empty filter.
//
// Header-only and empty inputs yield an empty (nil) slice. Input order is preserved.
func ParseWithColumn(text, vendorColumn, vendorFilter string) []models.RawRecord {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		header []string
		out    []models.RawRecord
	)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := splitFields(line)
		if header == nil {
			header = make([]string, len(fields))
			for i, h := range fields {
				header[i] = cleanValue(h)
			}
			continue
		}

		// Lenient: truncated rows are not an error.
		if len(fields) < len(header) {
			continue
		}

		rec := make(models.RawRecord, len(header))
		for i, h := range header {
			rec[h] = cleanValue(fields[i])
		}

		if !strings.Contains(rec[vendorColumn], vendorFilter) {
			continue
		}
		out = append(out, rec)
	}

	return out
}

// splitFields tokenizes one CSV line with a single in-quotes flag.
//
// A '"' toggles the flag, except that a doubled quote inside a quoted
// section is emitted as one literal '"'. Commas inside quotes are literal.
// An unbalanced quote leaves the flag set until the end of the line, so
// the rest of the line lands in the last field.
func splitFields(line string) []string {
	var (
		fields   []string
		buf      strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				buf.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteByte(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(buf.String()))

	return fields
}

// cleanValue strips one layer of surrounding double quotes and trims.
// A lone leading or trailing quote is kept.
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
