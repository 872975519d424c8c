package portfolio

import (
	"errors"
	"math"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
	"github.com/montanaflynn/stats"
)

// PerformanceMetrics summarizes the aggregate value curve.
type PerformanceMetrics struct {
	PeriodReturn float64 `json:"period_return"`
	Volatility   float64 `json:"volatility"` // sample stdev of per-point returns
	SharpeRatio  float64 `json:"sharpe_ratio"`
	MaxDrawdown  float64 `json:"max_drawdown"`
}

// CalculateMetrics computes summary statistics over a performance series.
// Points with zero value are skipped; at least two valued points are needed.
func CalculateMetrics(points []model.PerformancePoint) (*PerformanceMetrics, error) {
	values := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Value > 0 {
			values = append(values, p.Value)
		}
	}
	if len(values) < 2 {
		return nil, errors.New("not enough valued points for metrics")
	}

	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		returns = append(returns, values[i]/values[i-1]-1)
	}

	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nil, err
	}

	periodReturn := values[len(values)-1]/values[0] - 1

	sharpe := 0.0
	if stdev > 0 {
		mean, err := stats.Mean(returns)
		if err != nil {
			return nil, err
		}
		sharpe = mean / stdev
	}

	peak := math.Inf(-1)
	maxDrawdown := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if dd := (peak - v) / peak; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}

	return &PerformanceMetrics{
		PeriodReturn: periodReturn,
		Volatility:   stdev,
		SharpeRatio:  sharpe,
		MaxDrawdown:  maxDrawdown,
	}, nil
}
