package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.binance.com", cfg.Binance.BaseURL)
	assert.Equal(t, "1m", cfg.Portfolio.DefaultInterval)
	assert.Equal(t, 500, cfg.Portfolio.KlineLimit)
	assert.Equal(t, Duration(5*time.Minute), cfg.Portfolio.StalenessMaxAge)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Len(t, cfg.Portfolio.Symbols, 3)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
binance:
  base_url: http://localhost:9999
portfolio:
  default_interval: 1h
  kline_limit: 100
  staleness_max_age: 10m
  symbols:
    - symbol: BTCUSDT
      units: 2
server:
  addr: ":9000"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", cfg.Binance.BaseURL)
	assert.Equal(t, "1h", cfg.Portfolio.DefaultInterval)
	assert.Equal(t, 100, cfg.Portfolio.KlineLimit)
	assert.Equal(t, Duration(10*time.Minute), cfg.Portfolio.StalenessMaxAge)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	require.Len(t, cfg.Portfolio.Symbols, 1)
	assert.Equal(t, 2.0, cfg.Portfolio.Symbols[0].Units)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BINANCE_BASE_URL", "http://proxy:1234")
	t.Setenv("STALENESS_MAX_AGE", "90s")
	t.Setenv("KLINE_LIMIT", "42")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://proxy:1234", cfg.Binance.BaseURL)
	assert.Equal(t, Duration(90*time.Second), cfg.Portfolio.StalenessMaxAge)
	assert.Equal(t, 42, cfg.Portfolio.KlineLimit)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg.Portfolio.Symbols[0].Units = -1
	assert.Error(t, cfg.Validate())

	cfg.Portfolio.Symbols[0].Units = 1
	cfg.Portfolio.Symbols[0].Symbol = ""
	assert.Error(t, cfg.Validate())
}
