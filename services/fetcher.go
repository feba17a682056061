package services

import (
	"context"

	"protrader/config"
	"protrader/models"
	"protrader/observability"
)

// Fetcher retrieves a historical price/volume series with bounded retries,
// tolerating an unreliable upstream. It performs no caching; callers
// memoize on (symbol, lookback, time bucket) if they want to.
type Fetcher struct {
	provider MarketDataProvider
	lookback string
	retry    RetryConfig
}

// NewFetcher creates a Fetcher from the analysis configuration. The delay
// source is jittered per config; pass a custom RetryConfig via WithRetryConfig
// to disable delays in tests.
func NewFetcher(provider MarketDataProvider, market config.MarketConfig, analysis config.AnalysisConfig) *Fetcher {
	return &Fetcher{
		provider: provider,
		lookback: market.LookbackRange,
		retry: RetryConfig{
			MaxAttempts: analysis.FetchAttempts,
			Delay:       UniformJitter(analysis.FetchDelayMin, analysis.FetchDelayMax),
		},
	}
}

// WithRetryConfig returns a copy of the fetcher using the given retry config
func (f *Fetcher) WithRetryConfig(cfg RetryConfig) *Fetcher {
	clone := *f
	clone.retry = cfg
	return &clone
}

// Fetch attempts retrieval up to the configured bound. An attempt succeeds
// only when the upstream returns a non-empty series with close values; any
// transport error, upstream error, or empty result counts as a failed
// attempt. After exhaustion it returns ErrNotAvailable; the underlying
// error is logged, never propagated.
func (f *Fetcher) Fetch(ctx context.Context, symbol models.Symbol) (models.Series, error) {
	metrics := observability.GetMetrics()

	var series models.Series
	err := WithRetry(ctx, f.retry, func() error {
		got, err := f.provider.GetDailyBars(ctx, symbol, f.lookback)
		if err != nil {
			metrics.RecordFetchAttempt("failure")
			return err
		}
		if len(got) == 0 {
			metrics.RecordFetchAttempt("empty")
			return ErrEmptyDataset
		}
		metrics.RecordFetchAttempt("success")
		series = got
		return nil
	})

	if err != nil {
		metrics.RecordFetchUnavailable(string(symbol.Region))
		observability.WithSymbol(symbol.Ticker).Warn("series unavailable after retries",
			"lookback", f.lookback,
			"error", err)
		return nil, ErrNotAvailable
	}

	return series, nil
}
