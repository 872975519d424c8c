package model

import (
	"io"
	"math"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
)

// csvBar is the on-the-wire CSV row shape. Column names follow the
// provider's kline layout.
type csvBar struct {
	OpenTime  time.Time `csv:"opentime"`
	Open      float64   `csv:"open"`
	High      float64   `csv:"high"`
	Low       float64   `csv:"low"`
	Close     float64   `csv:"close"`
	Volume    float64   `csv:"volume"`
	CloseTime time.Time `csv:"closetime"`
	LogReturn string    `csv:"log_returns"`
}

// WriteCSV exports the series as CSV, a pass-through of the bar data.
// The first bar's log return is left blank rather than written as NaN.
func (s Series) WriteCSV(w io.Writer) error {
	rows := make([]csvBar, 0, len(s))
	for _, b := range s {
		lr := ""
		if !math.IsNaN(b.LogReturn) {
			lr = strconv.FormatFloat(b.LogReturn, 'g', -1, 64)
		}
		rows = append(rows, csvBar{
			OpenTime:  b.OpenTime,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
			CloseTime: b.CloseTime,
			LogReturn: lr,
		})
	}
	return gocsv.Marshal(&rows, w)
}
