package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration lets YAML carry values like "5m" or "90s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// SeedSymbol is a portfolio position loaded at startup.
type SeedSymbol struct {
	Symbol string  `yaml:"symbol"`
	Units  float64 `yaml:"units"`
}

// Config holds all application configuration.
type Config struct {
	Binance struct {
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
	} `yaml:"binance"`
	Portfolio struct {
		Symbols         []SeedSymbol `yaml:"symbols"`
		DefaultInterval string       `yaml:"default_interval"`
		KlineLimit      int          `yaml:"kline_limit"`
		StalenessMaxAge Duration     `yaml:"staleness_max_age"`
		MaxInFlight     int          `yaml:"max_in_flight"`
	} `yaml:"portfolio"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		cfg.Binance.BaseURL = v
	}
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Binance.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.Binance.APISecret = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STALENESS_MAX_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Portfolio.StalenessMaxAge = Duration(d)
		}
	}
	if v := os.Getenv("KLINE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Portfolio.KlineLimit = n
		}
	}

	// Defaults
	if cfg.Binance.BaseURL == "" {
		cfg.Binance.BaseURL = "https://api.binance.com"
	}
	if cfg.Portfolio.DefaultInterval == "" {
		cfg.Portfolio.DefaultInterval = "1m"
	}
	if cfg.Portfolio.KlineLimit == 0 {
		cfg.Portfolio.KlineLimit = 500
	}
	if cfg.Portfolio.StalenessMaxAge == 0 {
		cfg.Portfolio.StalenessMaxAge = Duration(5 * time.Minute)
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if len(cfg.Portfolio.Symbols) == 0 {
		cfg.Portfolio.Symbols = []SeedSymbol{
			{Symbol: "BTCUSDT", Units: 1},
			{Symbol: "ETHUSDT", Units: 1},
			{Symbol: "SOLUSDC", Units: 1},
		}
	}

	return cfg, nil
}

// Validate checks that all required fields are coherent.
func (c *Config) Validate() error {
	if c.Binance.BaseURL == "" {
		return fmt.Errorf("binance.base_url is required")
	}
	if c.Portfolio.KlineLimit < 0 {
		return fmt.Errorf("portfolio.kline_limit must be positive")
	}
	if c.Portfolio.StalenessMaxAge < 0 {
		return fmt.Errorf("portfolio.staleness_max_age must be positive")
	}
	for _, s := range c.Portfolio.Symbols {
		if s.Symbol == "" {
			return fmt.Errorf("portfolio.symbols entries need a symbol")
		}
		if s.Units < 0 {
			return fmt.Errorf("portfolio.symbols[%s].units must be >= 0", s.Symbol)
		}
	}
	return nil
}
