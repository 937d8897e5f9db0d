package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is a single record keyed by column name. Cells hold float64 for
// numeric values and string for everything else.
type Row map[string]any

// Float returns the cell coerced to float64. Missing cells and values
// that cannot be parsed as numbers return 0.
func (r Row) Float(col string) float64 {
	v, ok := r.FloatOK(col)
	if !ok {
		return 0
	}
	return v
}

// FloatOK returns the cell as a float64 and reports whether the row
// holds a usable number for the column.
func (r Row) FloatOK(col string) (float64, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String returns the cell as a string. Numeric cells render without a
// trailing ".0"; missing cells return "".
func (r Row) String(col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}

// Has reports whether the row carries a non-nil value for the column.
func (r Row) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table holds named tabular data. Columns preserves the source column
// order, which downstream consumers rely on for deterministic
// tie-breaking.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// IsEmpty reports whether the table has no data rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// HasColumn reports whether the table declares the named column.
func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// EnsureColumn declares the column if the table does not already carry it.
func (t *Table) EnsureColumn(col string) {
	if !t.HasColumn(col) {
		t.Columns = append(t.Columns, col)
	}
}

// Sum totals a column across all rows, treating missing and non-numeric
// values as zero.
func (t Table) Sum(col string) float64 {
	var total float64
	for _, r := range t.Rows {
		total += r.Float(col)
	}
	return total
}

// Mean averages a column across the rows that hold a numeric value for
// it. Rows without a usable value are excluded; 0 is returned when none
// remain.
func (t Table) Mean(col string) float64 {
	v, _ := t.MeanOK(col)
	return v
}

// MeanOK is Mean plus a report of whether any row held a usable number,
// so callers can tell an all-missing column from a genuine zero mean.
func (t Table) MeanOK(col string) (float64, bool) {
	var total float64
	var n int
	for _, r := range t.Rows {
		if v, ok := r.FloatOK(col); ok {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}
