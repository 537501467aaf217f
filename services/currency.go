package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"wayfarer/logger"
	"wayfarer/metrics"
)

// Data source tags reported alongside gateway results.
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

// fallbackRates is the static table used when the live rate API is down or
// no key is configured. Approximate, USD-based.
var fallbackRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.85,
	"GBP": 0.73,
	"JPY": 110.0,
	"CAD": 1.25,
	"AUD": 1.35,
	"CHF": 0.92,
	"SGD": 1.35,
}

type CurrencyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewCurrencyClient(apiKey string, timeout time.Duration) *CurrencyClient {
	return &CurrencyClient{
		apiKey:     apiKey,
		baseURL:    "https://api.exchangerate.host",
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Named("currency"),
	}
}

// Rates returns exchange rates for the base currency. It never fails: on any
// upstream problem it falls back to the static table, cross-computed from
// USD, and reports the source tag accordingly.
func (c *CurrencyClient) Rates(ctx context.Context, base string) (map[string]float64, string) {
	if base == "" {
		base = "USD"
	}

	if c.apiKey != "" {
		if rates, err := c.fetchRates(ctx, base); err == nil {
			return rates, SourceLive
		} else {
			c.log.Warn("live rate fetch failed, using static table", zap.Error(err))
		}
	}

	metrics.GatewayFallbacks.WithLabelValues("currency").Inc()
	return staticRates(base), SourceFallback
}

// Convert converts amount between two currencies. Unknown currencies are the
// only error case; upstream failures degrade to the static table.
func (c *CurrencyClient) Convert(ctx context.Context, amount float64, from, to string) (float64, float64, string, error) {
	if from == to {
		return amount, 1.0, SourceLive, nil
	}

	rates, source := c.Rates(ctx, from)
	rate, ok := rates[to]
	if !ok || rate <= 0 {
		return 0, 0, source, fmt.Errorf("unsupported currency %q", to)
	}

	return round2(amount * rate), rate, source, nil
}

func (c *CurrencyClient) fetchRates(ctx context.Context, base string) (map[string]float64, error) {
	q := url.Values{}
	q.Set("base", base)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/latest?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate API error (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Success bool               `json:"success"`
		Rates   map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse rate response: %w", err)
	}
	if !result.Success || len(result.Rates) == 0 {
		return nil, fmt.Errorf("rate API returned no rates for %s", base)
	}

	result.Rates[base] = 1.0
	return result.Rates, nil
}

// staticRates derives a rate table for any base from the USD-pegged fallback
// table. An unknown base gets the USD table as-is.
func staticRates(base string) map[string]float64 {
	baseRate, ok := fallbackRates[base]
	if !ok || baseRate <= 0 {
		baseRate = 1.0
	}

	rates := make(map[string]float64, len(fallbackRates))
	for cur, usdRate := range fallbackRates {
		rates[cur] = usdRate / baseRate
	}
	rates[base] = 1.0
	return rates
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
