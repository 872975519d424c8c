package portfolio

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// colourPalette cycles display tags over new symbols (plotly defaults).
var colourPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// BatchReport is the outcome of one UpdateAll pass.
type BatchReport struct {
	ID        uuid.UUID
	Interval  model.Interval
	Refreshed []string
	Skipped   []string
	Failed    map[string]error
}

// Store owns the symbol → state mapping and orchestrates every mutation.
// A single write lock serializes mutations so value/weight/series updates
// are observed atomically. The lock is never held across provider I/O:
// it is taken to decide what needs refreshing, released during the fetch,
// and re-taken to commit, re-checking presence in case the symbol was
// removed meanwhile.
type Store struct {
	orch   *Orchestrator
	policy StalenessPolicy
	limit  int
	log    *zap.SugaredLogger
	now    func() time.Time

	mu          sync.RWMutex
	symbols     map[string]*model.SymbolState
	totalValue  float64
	lastUpdated time.Time
	colourIdx   int

	// generation counter: mutators bump gen, lazy getters rebuild their
	// cache whenever the recorded generation falls behind.
	gen         uint64
	combined    *model.Table
	combinedGen uint64
	perf        []model.PerformancePoint
	perfGen     uint64
}

// NewStore constructs the process-wide portfolio store. limit is the kline
// depth requested per fetch.
func NewStore(orch *Orchestrator, policy StalenessPolicy, limit int, log *zap.SugaredLogger) *Store {
	if limit <= 0 {
		limit = 500
	}
	return &Store{
		orch:    orch,
		policy:  policy,
		limit:   limit,
		log:     log,
		now:     time.Now,
		symbols: make(map[string]*model.SymbolState),
	}
}

// SymbolList returns the portfolio's symbols in sorted order.
func (s *Store) SymbolList() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]string, 0, len(s.symbols))
	for symbol := range s.symbols {
		list = append(list, symbol)
	}
	sort.Strings(list)
	return list
}

// AddSymbol creates a new symbol state and fetches its initial series.
// The key is normalized to uppercase. A provider failure does not abort
// the add: the symbol is kept with an empty series, reported stale in the
// summary, and picked up by the next refresh.
func (s *Store) AddSymbol(ctx context.Context, symbol string, units float64, interval model.Interval) error {
	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return fmt.Errorf("empty symbol")
	}
	if units < 0 {
		return fmt.Errorf("units must be >= 0, got %v", units)
	}

	s.mu.RLock()
	_, exists := s.symbols[symbol]
	s.mu.RUnlock()
	if exists {
		return fmt.Errorf("%s: %w", symbol, ErrDuplicateSymbol)
	}

	res := s.orch.RefreshOne(ctx, symbol, interval, s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.symbols[symbol]; exists {
		return fmt.Errorf("%s: %w", symbol, ErrDuplicateSymbol)
	}

	st := &model.SymbolState{
		Symbol: symbol,
		Units:  units,
		Colour: colourPalette[s.colourIdx%len(colourPalette)],
	}
	s.colourIdx++
	if res.Err != nil {
		s.log.Warnw("initial fetch failed, adding with empty series",
			"symbol", symbol, "error", res.Err)
	} else {
		st.Series = res.Series
		st.LastClose = res.Series.LastClose()
		st.LastRefreshed = s.now()
	}
	s.symbols[symbol] = st
	s.commitLocked()
	return nil
}

// RemoveSymbol deletes a symbol and renormalizes the remaining weights.
func (s *Store) RemoveSymbol(symbol string) error {
	symbol = model.NormalizeSymbol(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.symbols[symbol]; !ok {
		return fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
	}
	delete(s.symbols, symbol)
	s.commitLocked()
	return nil
}

// UpdateSymbol refreshes one symbol's series if the staleness policy says
// so (or force is set), optionally updating its units first. Valuation is
// recomputed even when the fetch is skipped or fails.
func (s *Store) UpdateSymbol(ctx context.Context, symbol string, units *float64, interval model.Interval, force bool) error {
	symbol = model.NormalizeSymbol(symbol)

	s.mu.Lock()
	st, ok := s.symbols[symbol]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
	}
	if units != nil {
		if *units < 0 {
			s.mu.Unlock()
			return fmt.Errorf("units must be >= 0, got %v", *units)
		}
		st.Units = *units
		s.commitLocked()
	}
	needs := s.policy.NeedsRefresh(st.LastRefreshed, s.now(), st.Series.Empty(), force)
	s.mu.Unlock()

	if !needs {
		return nil
	}

	res := s.orch.RefreshOne(ctx, symbol, interval, s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok = s.symbols[symbol]
	if !ok {
		// removed while the fetch was in flight; drop the result
		return nil
	}
	if res.Err != nil {
		// last-known-good retained
		return res.Err
	}
	st.Series = res.Series
	st.LastClose = res.Series.LastClose()
	st.LastRefreshed = s.now()
	s.commitLocked()
	return nil
}

// UpdateAll refreshes every stale symbol concurrently. Per-symbol provider
// failures leave that symbol's prior series and valuation untouched and
// never abort the batch.
func (s *Store) UpdateAll(ctx context.Context, interval model.Interval, force bool) *BatchReport {
	report := &BatchReport{
		ID:       uuid.New(),
		Interval: interval,
		Failed:   make(map[string]error),
	}

	s.mu.RLock()
	now := s.now()
	needing := make([]string, 0, len(s.symbols))
	for symbol, st := range s.symbols {
		if s.policy.NeedsRefresh(st.LastRefreshed, now, st.Series.Empty(), force) {
			needing = append(needing, symbol)
		} else {
			report.Skipped = append(report.Skipped, symbol)
		}
	}
	s.mu.RUnlock()
	sort.Strings(needing)
	sort.Strings(report.Skipped)

	results := s.orch.RefreshMany(ctx, needing, interval, s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, symbol := range needing {
		res := results[symbol]
		st, ok := s.symbols[symbol]
		if !ok {
			continue // removed mid-flight
		}
		if res.Err != nil {
			report.Failed[symbol] = res.Err
			continue
		}
		st.Series = res.Series
		st.LastClose = res.Series.LastClose()
		st.LastRefreshed = s.now()
		report.Refreshed = append(report.Refreshed, symbol)
	}
	s.commitLocked()
	s.log.Infow("update-all finished",
		"batch", report.ID,
		"refreshed", len(report.Refreshed),
		"failed", len(report.Failed),
		"skipped", len(report.Skipped))
	return report
}

// GetElement reads one valuation field of a symbol.
func (s *Store) GetElement(symbol, field string) (float64, error) {
	f, err := model.ParseField(field)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, ErrUnknownField)
	}
	symbol = model.NormalizeSymbol(symbol)

	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.symbols[symbol]
	if !ok {
		return 0, fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
	}
	switch f {
	case model.FieldUnits:
		return st.Units, nil
	case model.FieldClose:
		return st.LastClose, nil
	case model.FieldValue:
		return st.Value, nil
	case model.FieldWeight:
		return st.Weight, nil
	}
	return 0, fmt.Errorf("%s: %w", field, ErrUnknownField)
}

// SetElement writes one field of a symbol. Only units and close are
// assignable; value and weight are derived and recomputed on every write.
func (s *Store) SetElement(symbol, field string, value float64) error {
	f, err := model.ParseField(field)
	if err != nil {
		return fmt.Errorf("%s: %w", field, ErrUnknownField)
	}
	symbol = model.NormalizeSymbol(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.symbols[symbol]
	if !ok {
		return fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
	}
	switch f {
	case model.FieldUnits:
		if value < 0 {
			return fmt.Errorf("units must be >= 0, got %v", value)
		}
		st.Units = value
	case model.FieldClose:
		st.LastClose = value
	default:
		return fmt.Errorf("%s is derived and not assignable: %w", field, ErrUnknownField)
	}
	s.commitLocked()
	return nil
}

// Summary returns a consistent snapshot of the portfolio's valuation,
// including a per-symbol staleness flag so callers can tell when a
// symbol's data may be outdated.
func (s *Store) Summary() model.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	out := model.Summary{
		TotalValue:  s.totalValue,
		LastUpdated: s.lastUpdated,
		Symbols:     make([]model.SymbolSummary, 0, len(s.symbols)),
	}
	for _, st := range s.symbols {
		out.Symbols = append(out.Symbols, model.SymbolSummary{
			Symbol:        st.Symbol,
			Units:         st.Units,
			Close:         st.LastClose,
			Value:         st.Value,
			Weight:        st.Weight,
			Colour:        st.Colour,
			Stale:         s.policy.NeedsRefresh(st.LastRefreshed, now, st.Series.Empty(), false),
			LastRefreshed: st.LastRefreshed,
		})
	}
	sort.Slice(out.Symbols, func(i, j int) bool { return out.Symbols[i].Symbol < out.Symbols[j].Symbol })
	return out
}

// CombinedSeries lazily rebuilds and returns the time-aligned wide table.
// A merge failure degrades to an empty table; the result is cached until
// the next mutation. Callers must treat the table as read-only.
func (s *Store) CombinedSeries() *model.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.combinedLocked()
}

// PerformanceSeries lazily rebuilds and returns the aggregate value curve:
// sum of units*close per aligned timestamp, 0 for missing closes.
func (s *Store) PerformanceSeries() []model.PerformancePoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.perf != nil && s.perfGen == s.gen {
		return s.perf
	}
	table := s.combinedLocked()
	units := make(map[string]float64, len(s.symbols))
	for symbol, st := range s.symbols {
		units[symbol] = st.Units
	}
	s.perf = PerformanceFromTable(table, units)
	if s.perf == nil {
		s.perf = []model.PerformancePoint{}
	}
	s.perfGen = s.gen
	return s.perf
}

// SeriesSnapshot returns a copy of one symbol's series for export.
func (s *Store) SeriesSnapshot(symbol string) (model.Series, error) {
	symbol = model.NormalizeSymbol(symbol)
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.symbols[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
	}
	cp := make(model.Series, len(st.Series))
	copy(cp, st.Series)
	return cp, nil
}

// commitLocked finishes a mutation under the write lock: valuation is
// recomputed atomically with the mutation and the derived caches are
// invalidated via the generation counter.
func (s *Store) commitLocked() {
	s.totalValue = Recompute(s.symbols)
	s.lastUpdated = s.now()
	s.gen++
}

// combinedLocked rebuilds the combined table if the cache generation is
// behind. Requires the write lock.
func (s *Store) combinedLocked() *model.Table {
	if s.combined != nil && s.combinedGen == s.gen {
		return s.combined
	}
	series := make(map[string]model.Series, len(s.symbols))
	for symbol, st := range s.symbols {
		series[symbol] = st.Series
	}
	table, err := Combine(series)
	if err != nil {
		s.log.Errorw("combine failed, serving empty table", "error", err)
		table = model.NewTable(nil, nil)
	}
	s.combined = table
	s.combinedGen = s.gen
	return s.combined
}
