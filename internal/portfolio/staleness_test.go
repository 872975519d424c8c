package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsStale(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	maxAge := 5 * time.Minute

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"fresh", base.Add(time.Minute), false},
		{"exactly max age", base.Add(maxAge), false},
		{"one ns past", base.Add(maxAge + time.Nanosecond), true},
		{"well past", base.Add(time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStale(base, tt.now, maxAge))
		})
	}
}

func TestStalenessPolicyNeedsRefresh(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := NewStalenessPolicy(5 * time.Minute)

	// force bypasses the age check entirely
	assert.True(t, p.NeedsRefresh(base, base, false, true))
	// empty series is always stale
	assert.True(t, p.NeedsRefresh(base, base, true, false))
	// fresh and populated
	assert.False(t, p.NeedsRefresh(base, base.Add(time.Minute), false, false))
	// aged out
	assert.True(t, p.NeedsRefresh(base, base.Add(6*time.Minute), false, false))
}

func TestNewStalenessPolicyDefault(t *testing.T) {
	assert.Equal(t, DefaultMaxAge, NewStalenessPolicy(0).MaxAge)
	assert.Equal(t, time.Minute, NewStalenessPolicy(time.Minute).MaxAge)
}
