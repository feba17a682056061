package analyzer

import (
	"context"
	"sync"
	"time"

	"protrader/models"
)

// mockFetcher scripts per-ticker fetch outcomes.
type mockFetcher struct {
	mu     sync.Mutex
	series map[string]models.Series
	errs   map[string]error
	calls  []string
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		series: make(map[string]models.Series),
		errs:   make(map[string]error),
	}
}

func (m *mockFetcher) Fetch(_ context.Context, symbol models.Symbol) (models.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, symbol.Ticker)
	if err, ok := m.errs[symbol.Ticker]; ok {
		return nil, err
	}
	return m.series[symbol.Ticker], nil
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockNewsProvider returns a fixed article list or error.
type mockNewsProvider struct {
	articles []models.NewsArticle
	err      error
	calls    int
}

func (m *mockNewsProvider) GetNews(_ context.Context, _ models.Symbol, _ int) ([]models.NewsArticle, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.articles, nil
}

// mockLLM records the prompts it received.
type mockLLM struct {
	response      string
	err           error
	systemPrompts []string
	userPrompts   []string
}

func (m *mockLLM) InvokeWithPrompt(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.systemPrompts = append(m.systemPrompts, systemPrompt)
	m.userPrompts = append(m.userPrompts, userPrompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// mockSeriesCache is an in-memory SeriesCache that ignores TTLs.
type mockSeriesCache struct {
	mu      sync.Mutex
	entries map[string]models.Series
	hits    int
	misses  int
	sets    int
}

func newMockSeriesCache() *mockSeriesCache {
	return &mockSeriesCache{entries: make(map[string]models.Series)}
}

func (m *mockSeriesCache) GetSeries(_ context.Context, symbol models.Symbol, dataType string) (models.Series, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	series, ok := m.entries[symbol.Ticker+"/"+dataType]
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	return series, ok
}

func (m *mockSeriesCache) SetSeries(_ context.Context, symbol models.Symbol, dataType string, series models.Series, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.entries[symbol.Ticker+"/"+dataType] = series
	return nil
}

func risingSeries(n int) models.Series {
	series := make(models.Series, n)
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range series {
		price := 100 + 0.5*float64(i)
		series[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1000,
		}
	}
	return series
}
