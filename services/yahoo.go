package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"protrader/config"
	"protrader/models"
	"protrader/observability"
)

// YahooService speaks the Yahoo-style chart and search APIs: daily OHLCV
// series plus recent headlines. One instance serves both provider roles.
type YahooService struct {
	httpClient  *http.Client
	baseURL     string
	newsBaseURL string
}

// NewYahooService creates a new YahooService instance
func NewYahooService(cfg config.MarketConfig) *YahooService {
	return &YahooService{
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:     cfg.BaseURL,
		newsBaseURL: cfg.NewsBaseURL,
	}
}

// chartResponse mirrors the v8 chart payload. Quote columns are pointer
// slices because the upstream emits explicit nulls for halted sessions.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetDailyBars retrieves the daily OHLCV series for a symbol over the given
// lookback range token (e.g. "1y"). The round trip runs through the chart
// circuit breaker, so a dead upstream is rejected without hitting the wire.
// Shape deviations are normalized here: when the upstream returns several
// quote blocks the first one wins, null rows are dropped, and duplicate
// dates keep the first occurrence.
func (s *YahooService) GetDailyBars(ctx context.Context, symbol models.Symbol, lookback string) (models.Series, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerChartAPI, "daily_bars")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(BreakerChartAPI, "daily_bars")

	return WithCircuitBreaker(ctx, BreakerChartAPI, func() (models.Series, error) {
		return s.fetchDailyBars(ctx, symbol, lookback)
	})
}

func (s *YahooService) fetchDailyBars(ctx context.Context, symbol models.Symbol, lookback string) (models.Series, error) {
	metrics := observability.GetMetrics()

	params := url.Values{}
	params.Set("range", lookback)
	params.Set("interval", "1d")

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", s.baseURL, url.PathEscape(symbol.Ticker), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; protrader/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalAPIError(BreakerChartAPI, "daily_bars", "connection_error")
		return nil, fmt.Errorf("failed to fetch chart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordExternalAPIError(BreakerChartAPI, "daily_bars", fmt.Sprintf("http_%d", resp.StatusCode))
		return nil, fmt.Errorf("chart API returned status %d", resp.StatusCode)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error %s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, ErrEmptyDataset
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, ErrEmptyDataset
	}
	// Keep the first quote block; extras are ticker-qualified duplicates.
	quote := result.Indicators.Quote[0]
	if len(quote.Close) == 0 {
		return nil, ErrEmptyDataset
	}

	series := make(models.Series, 0, len(result.Timestamp))
	var lastDate time.Time
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		date := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		if !lastDate.IsZero() && !date.After(lastDate) {
			continue
		}
		bar := models.Bar{Date: date, Close: *quote.Close[i]}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		series = append(series, bar)
		lastDate = date
	}

	if len(series) == 0 {
		return nil, ErrEmptyDataset
	}

	return series, nil
}

// searchResponse mirrors the v1 search payload's news section
type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Link                string `json:"link"`
		Publisher           string `json:"publisher"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// GetNews returns recent headlines for a symbol through the news circuit
// breaker. May legitimately be empty.
func (s *YahooService) GetNews(ctx context.Context, symbol models.Symbol, limit int) ([]models.NewsArticle, error) {
	if limit <= 0 {
		limit = 5
	}

	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerNewsAPI, "search")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(BreakerNewsAPI, "search")

	return WithCircuitBreaker(ctx, BreakerNewsAPI, func() ([]models.NewsArticle, error) {
		return s.fetchNews(ctx, symbol, limit)
	})
}

func (s *YahooService) fetchNews(ctx context.Context, symbol models.Symbol, limit int) ([]models.NewsArticle, error) {
	metrics := observability.GetMetrics()

	params := url.Values{}
	params.Set("q", symbol.Ticker)
	params.Set("newsCount", fmt.Sprintf("%d", limit))
	params.Set("quotesCount", "0")

	endpoint := fmt.Sprintf("%s/v1/finance/search?%s", s.newsBaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create news request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; protrader/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalAPIError(BreakerNewsAPI, "search", "connection_error")
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordExternalAPIError(BreakerNewsAPI, "search", fmt.Sprintf("http_%d", resp.StatusCode))
		return nil, fmt.Errorf("news API returned status %d", resp.StatusCode)
	}

	var search searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("failed to decode news response: %w", err)
	}

	articles := make([]models.NewsArticle, 0, len(search.News))
	for _, item := range search.News {
		if item.Title == "" {
			continue
		}
		articles = append(articles, models.NewsArticle{
			Title:       item.Title,
			URL:         item.Link,
			Source:      item.Publisher,
			PublishedAt: time.Unix(item.ProviderPublishTime, 0).UTC(),
		})
	}

	return articles, nil
}
