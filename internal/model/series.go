package model

import (
	"fmt"
	"math"
	"time"
)

// Interval is a kline bucket size accepted by the market-data provider.
type Interval string

const (
	Interval1s  Interval = "1s"
	Interval1m  Interval = "1m"
	Interval1h  Interval = "1h"
	Interval12h Interval = "12h"
	Interval1d  Interval = "1d"
	Interval1M  Interval = "1M"
)

var intervals = map[Interval]bool{
	Interval1s:  true,
	Interval1m:  true,
	Interval1h:  true,
	Interval12h: true,
	Interval1d:  true,
	Interval1M:  true,
}

// ParseInterval validates an interval string.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(s)
	if !intervals[iv] {
		return "", fmt.Errorf("unsupported interval %q", s)
	}
	return iv, nil
}

// Bar is a single kline: one OHLCV observation over a fixed interval,
// plus the log return against the previous bar's close.
type Bar struct {
	OpenTime  time.Time
	CloseTime time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	LogReturn float64 // NaN for the first bar of a series
}

// Series is an ordered sequence of bars with strictly increasing OpenTime.
type Series []Bar

// Empty reports whether the series holds no bars.
func (s Series) Empty() bool { return len(s) == 0 }

// LastClose returns the close of the most recent bar, or 0 for an empty series.
func (s Series) LastClose() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// Validate checks the ordering invariant.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].OpenTime.After(s[i-1].OpenTime) {
			return fmt.Errorf("series not strictly increasing at index %d (%s >= %s)",
				i, s[i-1].OpenTime, s[i].OpenTime)
		}
	}
	return nil
}

// FillLogReturns recomputes LogReturn for every bar in place:
// ln(close[i]/close[i-1]), NaN for the first bar.
func (s Series) FillLogReturns() {
	for i := range s {
		if i == 0 {
			s[i].LogReturn = math.NaN()
			continue
		}
		s[i].LogReturn = math.Log(s[i].Close / s[i-1].Close)
	}
}
