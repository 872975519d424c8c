package model

import (
	"math"
	"time"
)

// BarTime is the (openTime, closeTime) pair a combined table row is keyed on.
type BarTime struct {
	OpenTime  time.Time `json:"open_time"`
	CloseTime time.Time `json:"close_time"`
}

// Table is a time-aligned wide table: one row per distinct (openTime,
// closeTime) present in any input series, one column per symbol metric
// (open_BTCUSDT, close_ETHUSDT, ...). Cells with no data for a given
// symbol/timestamp are NaN, never zero.
type Table struct {
	Times   []BarTime
	Columns []string
	cells   map[string][]float64
}

// NewTable builds an empty table sized for the given row keys and columns.
// Every cell starts out missing.
func NewTable(times []BarTime, columns []string) *Table {
	t := &Table{
		Times:   times,
		Columns: columns,
		cells:   make(map[string][]float64, len(columns)),
	}
	for _, c := range columns {
		vals := make([]float64, len(times))
		for i := range vals {
			vals[i] = math.NaN()
		}
		t.cells[c] = vals
	}
	return t
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t == nil || len(t.Times) == 0 }

// Set writes one cell. Unknown columns and out-of-range rows are ignored.
func (t *Table) Set(column string, row int, v float64) {
	vals, ok := t.cells[column]
	if !ok || row < 0 || row >= len(vals) {
		return
	}
	vals[row] = v
}

// Column returns the values of one column; NaN marks missing cells.
func (t *Table) Column(name string) ([]float64, bool) {
	if t == nil {
		return nil, false
	}
	vals, ok := t.cells[name]
	return vals, ok
}

// IsMissing reports whether a cell holds no data.
func IsMissing(v float64) bool { return math.IsNaN(v) }
