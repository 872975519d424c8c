package portfolio

import (
	"fmt"
	"sort"
	"time"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
)

// metric column names, suffixed per symbol in the combined table.
var barMetrics = []string{"open", "high", "low", "close", "volume", "log_returns"}

// ColumnName builds a combined-table column name, e.g. close_BTCUSDT.
func ColumnName(metric, symbol string) string {
	return metric + "_" + symbol
}

// Combine performs a full outer join of the given per-symbol series on
// (openTime, closeTime). Every timestamp present in any input survives;
// cells a symbol has no bar for stay missing. Symbols with empty series
// contribute no columns. An empty input set yields an empty table.
func Combine(series map[string]model.Series) (*model.Table, error) {
	symbols := make([]string, 0, len(series))
	for symbol, s := range series {
		if s.Empty() {
			continue
		}
		if err := s.Validate(); err != nil {
			return nil, &MergeError{Symbol: symbol, Err: err}
		}
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	if len(symbols) == 0 {
		return model.NewTable(nil, nil), nil
	}

	type timeKey struct{ open, close int64 }
	seen := make(map[timeKey]bool)
	keys := make([]timeKey, 0)
	for _, symbol := range symbols {
		for _, b := range series[symbol] {
			k := timeKey{b.OpenTime.UnixMilli(), b.CloseTime.UnixMilli()}
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].open != keys[j].open {
			return keys[i].open < keys[j].open
		}
		return keys[i].close < keys[j].close
	})

	times := make([]model.BarTime, len(keys))
	rowOf := make(map[timeKey]int, len(keys))
	for i, k := range keys {
		times[i] = model.BarTime{
			OpenTime:  time.UnixMilli(k.open),
			CloseTime: time.UnixMilli(k.close),
		}
		rowOf[k] = i
	}

	columns := make([]string, 0, len(symbols)*len(barMetrics))
	for _, symbol := range symbols {
		for _, m := range barMetrics {
			columns = append(columns, ColumnName(m, symbol))
		}
	}

	table := model.NewTable(times, columns)
	for _, symbol := range symbols {
		for _, b := range series[symbol] {
			row, ok := rowOf[timeKey{b.OpenTime.UnixMilli(), b.CloseTime.UnixMilli()}]
			if !ok {
				return nil, &MergeError{Symbol: symbol, Err: fmt.Errorf("row key vanished during join")}
			}
			table.Set(ColumnName("open", symbol), row, b.Open)
			table.Set(ColumnName("high", symbol), row, b.High)
			table.Set(ColumnName("low", symbol), row, b.Low)
			table.Set(ColumnName("close", symbol), row, b.Close)
			table.Set(ColumnName("volume", symbol), row, b.Volume)
			table.Set(ColumnName("log_returns", symbol), row, b.LogReturn)
		}
	}
	return table, nil
}

// PerformanceFromTable aggregates the combined table into the portfolio
// value curve: one point per row, summing units*close per symbol with 0
// standing in for missing closes.
func PerformanceFromTable(table *model.Table, units map[string]float64) []model.PerformancePoint {
	if table.Empty() {
		return nil
	}
	points := make([]model.PerformancePoint, len(table.Times))
	for i, bt := range table.Times {
		points[i] = model.PerformancePoint{Time: bt.OpenTime}
	}
	for symbol, u := range units {
		closes, ok := table.Column(ColumnName("close", symbol))
		if !ok {
			continue
		}
		for i, c := range closes {
			if model.IsMissing(c) {
				continue
			}
			points[i].Value += u * c
		}
	}
	return points
}
