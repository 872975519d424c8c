package portfolio

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/logger"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/marketdata"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider tracks peak concurrent Klines calls.
type countingProvider struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	calls    atomic.Int64
	delay    time.Duration
	fail     map[string]error
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Klines(_ context.Context, symbol string, _ model.Interval, _ int) (model.Series, error) {
	p.mu.Lock()
	p.inFlight++
	if p.inFlight > p.peak {
		p.peak = p.inFlight
	}
	p.mu.Unlock()

	time.Sleep(p.delay)
	p.calls.Add(1)

	p.mu.Lock()
	p.inFlight--
	p.mu.Unlock()

	if err, ok := p.fail[symbol]; ok {
		return nil, err
	}
	return seriesAt(time.Unix(0, 0), 100), nil
}

func TestRefreshManyCollectsAllOutcomes(t *testing.T) {
	boom := errors.New("rate limited")
	p := &countingProvider{fail: map[string]error{"ETHUSDT": boom}}
	o := NewOrchestrator(p, 0, logger.NewNop())

	results := o.RefreshMany(context.Background(), []string{"BTCUSDT", "ETHUSDT", "SOLUSDC"}, model.Interval1m, 10)

	require.Len(t, results, 3, "one symbol failing must not abort the others")
	require.NoError(t, results["BTCUSDT"].Err)
	require.NoError(t, results["SOLUSDC"].Err)
	assert.False(t, results["BTCUSDT"].Series.Empty())

	var pErr *ProviderError
	require.ErrorAs(t, results["ETHUSDT"].Err, &pErr)
	assert.Equal(t, "ETHUSDT", pErr.Symbol)
	assert.ErrorIs(t, results["ETHUSDT"].Err, boom)
}

func TestRefreshManyBoundedFanOut(t *testing.T) {
	p := &countingProvider{delay: 20 * time.Millisecond}
	o := NewOrchestrator(p, 2, logger.NewNop())

	symbols := []string{"A", "B", "C", "D", "E", "F"}
	results := o.RefreshMany(context.Background(), symbols, model.Interval1m, 10)

	assert.Len(t, results, len(symbols))
	assert.Equal(t, int64(len(symbols)), p.calls.Load())
	assert.LessOrEqual(t, p.peak, 2, "max-in-flight bound exceeded")
}

func TestRefreshManyEmpty(t *testing.T) {
	o := NewOrchestrator(&countingProvider{}, 0, logger.NewNop())
	assert.Empty(t, o.RefreshMany(context.Background(), nil, model.Interval1m, 10))
}

func TestRefreshOne(t *testing.T) {
	boom := errors.New("auth")
	o := NewOrchestrator(&marketdata.MockProvider{Errors: map[string]error{"BTCUSDT": boom}}, 0, logger.NewNop())

	res := o.RefreshOne(context.Background(), "BTCUSDT", model.Interval1m, 10)
	var pErr *ProviderError
	require.ErrorAs(t, res.Err, &pErr)
	assert.Equal(t, "BTCUSDT", pErr.Symbol)
}
