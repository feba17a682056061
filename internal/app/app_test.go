package app

import (
	"context"
	"errors"
	"testing"

	"protrader/config"
	"protrader/models"
)

type mockAnalyzer struct {
	results map[string]*models.AnalysisResult
}

func (m *mockAnalyzer) AnalyzeTicker(_ context.Context, raw string) (*models.AnalysisResult, error) {
	res, ok := m.results[raw]
	if !ok {
		return nil, errors.New("unexpected ticker")
	}
	return res, nil
}

func (m *mockAnalyzer) AnalyzeBatch(ctx context.Context, input string) ([]*models.AnalysisResult, []models.RankingEntry, error) {
	var results []*models.AnalysisResult
	var ranking []models.RankingEntry
	for _, token := range models.ParseTickerList(input) {
		res, err := m.AnalyzeTicker(ctx, token)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, res)
		ranking = append(ranking, models.RankingEntry{DisplayName: res.DisplayName, Score: res.Score, Label: res.Label})
	}
	return results, ranking, nil
}

type mockRepository struct {
	entries     []models.WatchlistEntry
	upserts     []models.WatchlistEntry
	removals    []string
	invalidated []string
	cleared     bool
	closed      bool
	err         error
}

func (m *mockRepository) Close()                         { m.closed = true }
func (m *mockRepository) Health(_ context.Context) error { return m.err }

func (m *mockRepository) GetWatchlist(_ context.Context) ([]models.WatchlistEntry, error) {
	return m.entries, m.err
}
func (m *mockRepository) UpsertWatchlistEntry(_ context.Context, entry models.WatchlistEntry) error {
	m.upserts = append(m.upserts, entry)
	return m.err
}
func (m *mockRepository) RemoveWatchlistEntry(_ context.Context, ticker string) error {
	m.removals = append(m.removals, ticker)
	return m.err
}
func (m *mockRepository) ClearWatchlist(_ context.Context) error {
	m.cleared = true
	return m.err
}

func (m *mockRepository) InvalidateSeries(_ context.Context, symbol models.Symbol, _ string) error {
	m.invalidated = append(m.invalidated, symbol.Ticker)
	return m.err
}

func analysisResult(raw string, score int, label models.TrendLabel) *models.AnalysisResult {
	sym := models.Normalize(raw)
	return &models.AnalysisResult{
		Input:       raw,
		Symbol:      sym,
		DisplayName: sym.DisplayName(),
		Available:   true,
		Score:       score,
		Label:       label,
	}
}

func TestApp_StartupRestoresWatchlist(t *testing.T) {
	repo := &mockRepository{entries: []models.WatchlistEntry{
		{Symbol: models.Normalize("2330"), Score: 85, Label: models.TrendStrongBullish},
		{Symbol: models.Normalize("NVDA"), Score: 50, Label: models.TrendNeutral},
	}}
	application := New(config.NewTestConfig(), repo, &mockAnalyzer{})

	application.Startup(context.Background())

	list := application.Watchlist()
	if len(list) != 2 {
		t.Fatalf("len(watchlist) = %d, want 2", len(list))
	}
	if list[0].Symbol.Ticker != "2330.TW" {
		t.Errorf("first entry = %q, want the higher score first", list[0].Symbol.Ticker)
	}
}

func TestApp_WatchSymbolPersists(t *testing.T) {
	repo := &mockRepository{}
	an := &mockAnalyzer{results: map[string]*models.AnalysisResult{
		"2330": analysisResult("2330", 85, models.TrendStrongBullish),
	}}
	application := New(config.NewTestConfig(), repo, an)

	res, err := application.WatchSymbol(context.Background(), "2330")
	if err != nil {
		t.Fatalf("WatchSymbol() error = %v", err)
	}
	if res.Score != 85 {
		t.Errorf("score = %d, want 85", res.Score)
	}
	if len(repo.upserts) != 1 || repo.upserts[0].Symbol.Ticker != "2330.TW" {
		t.Errorf("upserts = %+v, want one entry for 2330.TW", repo.upserts)
	}
	if len(application.Watchlist()) != 1 {
		t.Error("watchlist not updated")
	}
}

func TestApp_WatchSymbol_NilRepo(t *testing.T) {
	an := &mockAnalyzer{results: map[string]*models.AnalysisResult{
		"NVDA": analysisResult("NVDA", 60, models.TrendMildlyBullish),
	}}
	application := New(config.NewTestConfig(), nil, an)

	if _, err := application.WatchSymbol(context.Background(), "NVDA"); err != nil {
		t.Fatalf("WatchSymbol() error = %v, want persistence to be optional", err)
	}
	if len(application.Watchlist()) != 1 {
		t.Error("in-memory watchlist must work without a repository")
	}
}

func TestApp_UnwatchAndClear(t *testing.T) {
	repo := &mockRepository{}
	an := &mockAnalyzer{results: map[string]*models.AnalysisResult{
		"2330": analysisResult("2330", 85, models.TrendStrongBullish),
		"NVDA": analysisResult("NVDA", 60, models.TrendMildlyBullish),
	}}
	application := New(config.NewTestConfig(), repo, an)
	application.WatchSymbol(context.Background(), "2330")
	application.WatchSymbol(context.Background(), "NVDA")

	application.UnwatchSymbol(context.Background(), "2330")
	if len(application.Watchlist()) != 1 {
		t.Errorf("len(watchlist) = %d after unwatch, want 1", len(application.Watchlist()))
	}
	if len(repo.removals) != 1 || repo.removals[0] != "2330.TW" {
		t.Errorf("removals = %v, want [2330.TW]", repo.removals)
	}

	application.ClearWatchlist(context.Background())
	if len(application.Watchlist()) != 0 {
		t.Error("watchlist not cleared")
	}
	if !repo.cleared {
		t.Error("persisted watchlist not cleared")
	}
}

func TestApp_InvalidateCachedSeries(t *testing.T) {
	repo := &mockRepository{}
	application := New(config.NewTestConfig(), repo, &mockAnalyzer{})

	if err := application.InvalidateCachedSeries(context.Background(), "2330"); err != nil {
		t.Fatalf("InvalidateCachedSeries() error = %v", err)
	}
	if len(repo.invalidated) != 1 || repo.invalidated[0] != "2330.TW" {
		t.Errorf("invalidated = %v, want [2330.TW]", repo.invalidated)
	}

	// Without a repository the call is a harmless no-op.
	noRepo := New(config.NewTestConfig(), nil, &mockAnalyzer{})
	if err := noRepo.InvalidateCachedSeries(context.Background(), "2330"); err != nil {
		t.Errorf("InvalidateCachedSeries() without repo error = %v", err)
	}
}

func TestApp_ShutdownClosesRepo(t *testing.T) {
	repo := &mockRepository{}
	application := New(config.NewTestConfig(), repo, &mockAnalyzer{})
	application.Shutdown(context.Background())
	if !repo.closed {
		t.Error("repository not closed on shutdown")
	}
}
