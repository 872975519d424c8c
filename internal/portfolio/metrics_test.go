package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
)

func perfPoints(values ...float64) []model.PerformancePoint {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	points := make([]model.PerformancePoint, len(values))
	for i, v := range values {
		points[i] = model.PerformancePoint{Time: base.Add(time.Duration(i) * time.Minute), Value: v}
	}
	return points
}

func TestCalculateMetrics(t *testing.T) {
	m, err := CalculateMetrics(perfPoints(100, 110, 99, 120))
	require.NoError(t, err)

	assert.InDelta(t, 0.20, m.PeriodReturn, 1e-9)
	// Per-point returns: +10%, -10%, +21.21...%
	assert.Greater(t, m.Volatility, 0.0)
	assert.Greater(t, m.SharpeRatio, 0.0)
	// Peak 110 down to 99.
	assert.InDelta(t, 0.1, m.MaxDrawdown, 1e-9)
}

func TestCalculateMetricsSkipsZeroValues(t *testing.T) {
	m, err := CalculateMetrics(perfPoints(0, 100, 0, 150))
	require.NoError(t, err)

	assert.InDelta(t, 0.5, m.PeriodReturn, 1e-9)
	assert.InDelta(t, 0.0, m.MaxDrawdown, 1e-9)
}

func TestCalculateMetricsFlatSeries(t *testing.T) {
	m, err := CalculateMetrics(perfPoints(100, 100, 100))
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.PeriodReturn)
	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0.0, m.MaxDrawdown)
}

func TestCalculateMetricsTooFewPoints(t *testing.T) {
	_, err := CalculateMetrics(perfPoints(100))
	assert.Error(t, err)

	_, err = CalculateMetrics(nil)
	assert.Error(t, err)

	_, err = CalculateMetrics(perfPoints(0, 0, 100))
	assert.Error(t, err)
}
