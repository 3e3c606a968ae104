// Package staging provides the tabular dataset layer that feeds the
// warehouse builders. Staging datasets are cleaned, flat CSV extracts with a
// fixed column contract; this package loads them, enforces the contract, and
// offers typed cell access with the coercion rules the builders rely on.
package staging

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dataset is a named, immutable table of string cells with ordered columns.
// Cell values come straight from CSV, so "" represents an absent value.
type Dataset struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]string
}

// New creates a dataset from a header and rows. Rows shorter than the header
// are padded with empty cells so column access never goes out of range.
func New(name string, columns []string, rows [][]string) *Dataset {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	for i, row := range rows {
		if len(row) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, row)
			rows[i] = padded
		}
	}
	return &Dataset{name: name, columns: columns, index: idx, rows: rows}
}

// Name returns the dataset name (normally the staging file stem).
func (d *Dataset) Name() string { return d.name }

// Columns returns the column names in file order.
func (d *Dataset) Columns() []string { return d.columns }

// Len returns the number of data rows.
func (d *Dataset) Len() int { return len(d.rows) }

// ContractError reports staging columns required by a builder but missing
// from the input dataset. It is fatal: the build cannot proceed on a dataset
// that violates its column contract.
type ContractError struct {
	Dataset string
	Missing []string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("dataset %q is missing required columns: %s",
		e.Dataset, strings.Join(e.Missing, ", "))
}

// Require verifies that every named column exists.
func (d *Dataset) Require(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if _, ok := d.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &ContractError{Dataset: d.name, Missing: missing}
	}
	return nil
}

// Value returns the cell at (row, column). An unknown column yields "",
// which keeps callers on the absent-value path; contract checks are the
// place where missing columns become errors.
func (d *Dataset) Value(row int, column string) string {
	i, ok := d.index[column]
	if !ok || row < 0 || row >= len(d.rows) {
		return ""
	}
	return d.rows[row][i]
}

// Int parses the cell as an integer. Values written by float-typed staging
// columns ("7.0") are accepted. The second return is false when the cell is
// empty or unparsable.
func (d *Dataset) Int(row int, column string) (int, bool) {
	return ParseInt(d.Value(row, column))
}

// Float parses the cell as a float64.
func (d *Dataset) Float(row int, column string) (float64, bool) {
	return ParseFloat(d.Value(row, column))
}

// Date parses the cell as a calendar date. Parse failures are coerced to
// absent, never errors.
func (d *Dataset) Date(row int, column string) (time.Time, bool) {
	return ParseDate(d.Value(row, column))
}

// dateLayouts are tried in order. Staging writes ISO dates, but upstream
// extracts have been seen with timestamps and slash formats.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// ParseDate parses a calendar date, truncating any time-of-day part.
// The boolean is false for empty or unparsable values.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseInt parses an integer cell, tolerating a float rendering of a whole
// number (pandas-style staging writes "3.0" for nullable int columns).
func ParseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int(f), true
}

// ParseFloat parses a float cell.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
