package marketdata

import (
	"context"
	"time"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
)

// Provider fetches kline history from an external market-data source.
// Implementations must be safe to call concurrently for different symbols
// and must not retry internally; retry policy belongs to the caller.
type Provider interface {
	Klines(ctx context.Context, symbol string, interval model.Interval, limit int) (model.Series, error)
	Name() string
}

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	Price  float64
	Data   map[string]model.Series
	Errors map[string]error
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Klines(_ context.Context, symbol string, _ model.Interval, limit int) (model.Series, error) {
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if s, ok := m.Data[symbol]; ok {
		return s, nil
	}
	return generateMockBars(m.Price, limit), nil
}

func generateMockBars(basePrice float64, count int) model.Series {
	now := time.Now()
	bars := make(model.Series, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		open := now.Add(time.Duration(i-count) * time.Minute)
		bars[i] = model.Bar{
			OpenTime:  open,
			CloseTime: open.Add(time.Minute),
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			Volume:    1000000,
		}
	}
	bars.FillLogReturns()
	return bars
}
