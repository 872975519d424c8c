package marketdata

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const klinesPayload = `[
  [1717200060000, "50100.0", "50200.0", "50000.0", "50150.0", "12.5", 1717200119999, "626875.0", 150, "6.0", "300900.0", "0"],
  [1717200000000, "50000.0", "50100.0", "49900.0", "50100.0", "10.0", 1717200059999, "501000.0", 120, "5.0", "250500.0", "0"]
]`

func TestBinanceKlines(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotKey = r.Header.Get("X-MBX-APIKEY")
		w.Write([]byte(klinesPayload))
	}))
	defer srv.Close()

	p := NewBinanceProvider(srv.URL, "test-key", "")
	series, err := p.Klines(context.Background(), "BTCUSDT", model.Interval1m, 2)
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/klines?symbol=BTCUSDT&interval=1m&limit=2", gotPath)
	assert.Equal(t, "test-key", gotKey)

	// bars sorted ascending even though the payload is reversed
	require.Len(t, series, 2)
	assert.Equal(t, time.UnixMilli(1717200000000).UTC(), series[0].OpenTime.UTC())
	assert.Equal(t, 50000.0, series[0].Open)
	assert.Equal(t, 50100.0, series[0].Close)
	assert.Equal(t, 10.0, series[0].Volume)
	assert.Equal(t, time.UnixMilli(1717200059999).UTC(), series[0].CloseTime.UTC())

	assert.True(t, math.IsNaN(series[0].LogReturn))
	assert.InDelta(t, math.Log(50150.0/50100.0), series[1].LogReturn, 1e-12)

	require.NoError(t, series.Validate())
}

func TestBinanceKlinesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1003,"msg":"Too many requests."}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewBinanceProvider(srv.URL, "", "")
	_, err := p.Klines(context.Background(), "BTCUSDT", model.Interval1m, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestBinanceKlinesBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	p := NewBinanceProvider(srv.URL, "", "")
	_, err := p.Klines(context.Background(), "BTCUSDT", model.Interval1m, 10)
	assert.Error(t, err)
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 1.5, toFloat(1.5))
	assert.Equal(t, 50000.0, toFloat("50000.0"))
	assert.Zero(t, toFloat(nil))
	assert.Zero(t, toFloat("not a number"))
	assert.Zero(t, toFloat(true))
}

func TestMockProvider(t *testing.T) {
	p := &MockProvider{Price: 100}
	series, err := p.Klines(context.Background(), "ANY", model.Interval1m, 5)
	require.NoError(t, err)
	assert.Len(t, series, 5)
	require.NoError(t, series.Validate())
}
