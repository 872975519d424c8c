package portfolio

import "time"

// DefaultMaxAge is the staleness threshold for passive checks.
const DefaultMaxAge = 5 * time.Minute

// IsStale reports whether cached data refreshed at lastRefreshed has
// outlived maxAge at the given instant. Exactly maxAge old is not stale.
func IsStale(lastRefreshed, now time.Time, maxAge time.Duration) bool {
	return now.Sub(lastRefreshed) > maxAge
}

// StalenessPolicy decides whether a symbol's cached state must be refreshed.
// Pure: now is injected so tests are deterministic.
type StalenessPolicy struct {
	MaxAge time.Duration
}

// NewStalenessPolicy applies the default threshold when maxAge is zero.
func NewStalenessPolicy(maxAge time.Duration) StalenessPolicy {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return StalenessPolicy{MaxAge: maxAge}
}

// NeedsRefresh reports whether a symbol must be re-fetched. An empty series
// is always stale, and force bypasses the age check entirely.
func (p StalenessPolicy) NeedsRefresh(lastRefreshed, now time.Time, seriesEmpty, force bool) bool {
	if force || seriesEmpty {
		return true
	}
	return IsStale(lastRefreshed, now, p.MaxAge)
}
