package services

import (
	"context"

	"protrader/models"
)

// MarketDataProvider is one upstream attempt to retrieve a daily OHLCV
// series. Implementations may fail, rate-limit, or return partial data; the
// Fetcher owns retries and degradation.
type MarketDataProvider interface {
	GetDailyBars(ctx context.Context, symbol models.Symbol, lookback string) (models.Series, error)
}

// NewsProvider retrieves recent headlines for a symbol. An empty slice is a
// valid response.
type NewsProvider interface {
	GetNews(ctx context.Context, symbol models.Symbol, limit int) ([]models.NewsArticle, error)
}

// LLMService defines the text-generation operations used by the summarizer
type LLMService interface {
	InvokeWithPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SeriesFetcher is the resilient retrieval seam the analyzer depends on
type SeriesFetcher interface {
	Fetch(ctx context.Context, symbol models.Symbol) (models.Series, error)
}

// Compile-time interface verification
var _ MarketDataProvider = (*YahooService)(nil)
var _ NewsProvider = (*YahooService)(nil)
var _ LLMService = (*GeminiService)(nil)
var _ SeriesFetcher = (*Fetcher)(nil)
