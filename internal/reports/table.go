// Package reports normalizes heterogeneous marketplace exports (WB
// general, WB detail, Ozon) into unified rows. Each logical field is
// resolved against an ordered alias list so a marketplace renaming a
// column between format revisions is a data change, not a code change.
package reports

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SchemaError means the file is not the report type the parser expects:
// one or more required logical columns could not be resolved from the
// actual header. Callers batch-processing a directory are expected to
// catch it per file and skip, not abort.
type SchemaError struct {
	Report  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: required columns missing: %s", e.Report, strings.Join(e.Missing, ", "))
}

// Table is a raw spreadsheet: one header row plus data rows, all as
// strings. The XLSX and CSV adapters produce it; parsers consume it.
type Table struct {
	Header []string
	Rows   [][]string
	File   string
}

// Cell returns the row's value at col, or "" when the row is short.
// Marketplace exports routinely truncate trailing empty cells.
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Column describes one logical field: the canonical key the parser uses
// plus the known header aliases, in preference order.
type Column struct {
	Key      string
	Aliases  []string
	Required bool
}

// Resolve maps each logical column to its index in the header.
// The first alias found wins. A nil error means every required column
// resolved; optional columns that did not resolve map to -1.
func Resolve(report string, header []string, cols []Column) (map[string]int, error) {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = normalizeHeader(h)
	}

	idx := make(map[string]int, len(cols))
	var missing []string
	for _, c := range cols {
		idx[c.Key] = -1
		for _, alias := range c.Aliases {
			for i, h := range norm {
				if h == alias {
					idx[c.Key] = i
					break
				}
			}
			if idx[c.Key] >= 0 {
				break
			}
		}
		if idx[c.Key] < 0 && c.Required {
			// Report the primary alias, the name users see in the file.
			missing = append(missing, c.Aliases[0])
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Report: report, Missing: missing}
	}
	return idx, nil
}

// normalizeHeader lowercases, strips NBSP and line breaks, and
// collapses runs of whitespace, so alias matching survives the styling
// marketplaces apply to header cells.
func normalizeHeader(h string) string {
	h = strings.ToLower(h)
	h = strings.ReplaceAll(h, " ", " ")
	h = strings.ReplaceAll(h, "\n", " ")
	return strings.Join(strings.Fields(h), " ")
}

// ParseAmount parses a money cell leniently: whitespace and NBSP
// stripped, comma accepted as decimal separator, 0 on anything
// unparseable. Blank cells in optional financial columns are routine,
// not errors.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// isNumeric reports whether the cell coerces to a number. Used to drop
// totals and separator rows by their primary key column.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

var dateLayouts = []string{
	"02.01.2006",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"2006-01-02 15:04:05",
	"02.01.06",
}

// round2 rounds a resolved monetary value to 2 places, matching how the
// exports themselves report money.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ParseDate tries the known export layouts; the zero time signals an
// unparseable cell and the caller decides whether to skip the row.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
