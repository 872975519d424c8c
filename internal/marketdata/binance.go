package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
)

// BinanceProvider implements Provider against the Binance REST klines API.
type BinanceProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewBinanceProvider creates a provider with optional proxy support.
// Kline history is public data; the API key header is only attached when set.
func NewBinanceProvider(baseURL, apiKey, proxyURL string) *BinanceProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}
	return &BinanceProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (p *BinanceProvider) Name() string { return "binance" }

// toFloat coerces the mixed-type kline array cells. Binance sends prices
// as strings and timestamps as numbers.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	case nil:
		return 0
	default:
		return 0
	}
}

// Klines fetches up to limit bars for symbol at the given interval.
func (p *BinanceProvider) Klines(ctx context.Context, symbol string, interval model.Interval, limit int) (model.Series, error) {
	u := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d",
		p.BaseURL, url.QueryEscape(symbol), interval, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if p.APIKey != "" {
		req.Header.Set("X-MBX-APIKEY", p.APIKey)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("binance fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance: status %d, body: %s", resp.StatusCode, string(body))
	}

	// Each kline is a 12-element array:
	// [openTime, open, high, low, close, volume, closeTime, quoteVolume,
	//  trades, takerBase, takerQuote, ignore]
	var raw [][]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("binance decode: %w", err)
	}

	bars := make(model.Series, 0, len(raw))
	for _, k := range raw {
		if len(k) < 7 {
			continue
		}
		bars = append(bars, model.Bar{
			OpenTime:  time.UnixMilli(int64(toFloat(k[0]))),
			Open:      toFloat(k[1]),
			High:      toFloat(k[2]),
			Low:       toFloat(k[3]),
			Close:     toFloat(k[4]),
			Volume:    toFloat(k[5]),
			CloseTime: time.UnixMilli(int64(toFloat(k[6]))),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].OpenTime.Before(bars[j].OpenTime) })
	bars.FillLogReturns()
	return bars, nil
}
