package model

import (
	"fmt"
	"strings"
	"time"
)

// Field names a SymbolState attribute addressable through the dynamic
// get/set element API exposed to external callers.
type Field string

const (
	FieldUnits  Field = "units"
	FieldClose  Field = "close"
	FieldValue  Field = "value"
	FieldWeight Field = "weight"
)

// ParseField validates a field name from an external caller.
func ParseField(s string) (Field, error) {
	switch Field(strings.ToLower(s)) {
	case FieldUnits:
		return FieldUnits, nil
	case FieldClose:
		return FieldClose, nil
	case FieldValue:
		return FieldValue, nil
	case FieldWeight:
		return FieldWeight, nil
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// NormalizeSymbol canonicalizes a symbol key: trimmed, uppercase.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SymbolState is the full cached state of one tradable symbol.
// Value and Weight are always consistent with the latest committed
// Series/Units pair; they are recomputed together under the store lock.
type SymbolState struct {
	Symbol        string
	Units         float64
	Series        Series
	LastClose     float64
	Value         float64
	Weight        float64
	Colour        string // opaque display tag for the presentation layer
	LastRefreshed time.Time
}

// SymbolSummary is the per-symbol slice of a portfolio summary.
type SymbolSummary struct {
	Symbol        string    `json:"symbol"`
	Units         float64   `json:"units"`
	Close         float64   `json:"close"`
	Value         float64   `json:"value"`
	Weight        float64   `json:"weight"`
	Colour        string    `json:"colour"`
	Stale         bool      `json:"stale"`
	LastRefreshed time.Time `json:"last_refreshed"`
}

// Summary is a consistent snapshot of the whole portfolio's valuation.
type Summary struct {
	TotalValue  float64         `json:"total_value"`
	Symbols     []SymbolSummary `json:"symbols"`
	LastUpdated time.Time       `json:"last_updated"`
}

// PerformancePoint is one aligned timestamp of the aggregate value curve.
type PerformancePoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}
