package portfolio

import (
	"context"
	"sync"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/marketdata"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
	"go.uber.org/zap"
)

// Result is the outcome of one symbol's refresh: either a series or an error.
type Result struct {
	Symbol string
	Series model.Series
	Err    error
}

// Orchestrator fans refresh requests out across symbols concurrently.
// One symbol's failure never aborts the others; every task runs to
// completion before RefreshMany returns.
type Orchestrator struct {
	provider    marketdata.Provider
	maxInFlight int // 0 means unbounded
	log         *zap.SugaredLogger
}

// NewOrchestrator creates an Orchestrator. maxInFlight bounds concurrent
// provider calls when positive.
func NewOrchestrator(provider marketdata.Provider, maxInFlight int, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{provider: provider, maxInFlight: maxInFlight, log: log}
}

// RefreshOne fetches a single symbol, tagging any failure with the symbol.
func (o *Orchestrator) RefreshOne(ctx context.Context, symbol string, interval model.Interval, limit int) Result {
	series, err := o.provider.Klines(ctx, symbol, interval, limit)
	if err != nil {
		return Result{Symbol: symbol, Err: &ProviderError{Symbol: symbol, Err: err}}
	}
	return Result{Symbol: symbol, Series: series}
}

// RefreshMany issues one concurrent fetch per symbol and collects every
// outcome, success or failure.
func (o *Orchestrator) RefreshMany(ctx context.Context, symbols []string, interval model.Interval, limit int) map[string]Result {
	results := make(map[string]Result, len(symbols))
	if len(symbols) == 0 {
		return results
	}

	var sem chan struct{}
	if o.maxInFlight > 0 {
		sem = make(chan struct{}, o.maxInFlight)
	}

	resCh := make(chan Result, len(symbols))
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			series, err := o.provider.Klines(ctx, symbol, interval, limit)
			if err != nil {
				resCh <- Result{Symbol: symbol, Err: &ProviderError{Symbol: symbol, Err: err}}
				return
			}
			resCh <- Result{Symbol: symbol, Series: series}
		}(symbol)
	}
	wg.Wait()
	close(resCh)

	for r := range resCh {
		if r.Err != nil {
			o.log.Warnw("refresh failed", "symbol", r.Symbol, "error", r.Err)
		}
		results[r.Symbol] = r
	}
	return results
}
