package app

import (
	"context"
	"fmt"

	"protrader/analyzer"
	"protrader/config"
	"protrader/models"
	"protrader/observability"
)

// RepositoryInterface defines the repository operations needed by App
type RepositoryInterface interface {
	Close()
	Health(ctx context.Context) error
	InvalidateSeries(ctx context.Context, symbol models.Symbol, dataType string) error
	UpsertWatchlistEntry(ctx context.Context, entry models.WatchlistEntry) error
	GetWatchlist(ctx context.Context) ([]models.WatchlistEntry, error)
	RemoveWatchlistEntry(ctx context.Context, ticker string) error
	ClearWatchlist(ctx context.Context) error
}

// AnalyzerInterface defines the analysis operations
type AnalyzerInterface interface {
	AnalyzeTicker(ctx context.Context, raw string) (*models.AnalysisResult, error)
	AnalyzeBatch(ctx context.Context, input string) ([]*models.AnalysisResult, []models.RankingEntry, error)
}

// App holds application dependencies behind interfaces for testability.
// The in-memory watchlist is authoritative; the repository, when present,
// persists it across restarts.
type App struct {
	cfg       *config.Config
	repo      RepositoryInterface
	analyzer  AnalyzerInterface
	watchlist *analyzer.Watchlist
}

// New creates the App. repo may be nil when no database is configured.
func New(cfg *config.Config, repo RepositoryInterface, an AnalyzerInterface) *App {
	return &App{
		cfg:       cfg,
		repo:      repo,
		analyzer:  an,
		watchlist: analyzer.NewWatchlist(),
	}
}

// Startup restores the persisted watchlist, if any
func (a *App) Startup(ctx context.Context) {
	if a.repo == nil {
		return
	}
	entries, err := a.repo.GetWatchlist(ctx)
	if err != nil {
		observability.Warn("failed to restore watchlist", "error", err)
		return
	}
	for _, e := range entries {
		a.watchlist.Upsert(e.Symbol, e.Score, e.Label)
	}
}

// Shutdown releases held resources
func (a *App) Shutdown(ctx context.Context) {
	if a.repo != nil {
		a.repo.Close()
	}
}

// Repo returns the repository interface for API handlers
func (a *App) Repo() RepositoryInterface {
	return a.repo
}

// AnalyzeBatch analyzes a comma separated ticker list sequentially
func (a *App) AnalyzeBatch(ctx context.Context, input string) ([]*models.AnalysisResult, []models.RankingEntry, error) {
	if a.analyzer == nil {
		return nil, nil, fmt.Errorf("analyzer not initialized")
	}
	return a.analyzer.AnalyzeBatch(ctx, input)
}

// WatchSymbol analyzes one ticker and upserts it into the watchlist
func (a *App) WatchSymbol(ctx context.Context, raw string) (*models.AnalysisResult, error) {
	if a.analyzer == nil {
		return nil, fmt.Errorf("analyzer not initialized")
	}

	res, err := a.analyzer.AnalyzeTicker(ctx, raw)
	if err != nil {
		return nil, err
	}

	a.watchlist.Upsert(res.Symbol, res.Score, res.Label)
	if a.repo != nil {
		entry := models.WatchlistEntry{Symbol: res.Symbol, Score: res.Score, Label: res.Label}
		if err := a.repo.UpsertWatchlistEntry(ctx, entry); err != nil {
			observability.WithSymbol(res.Symbol.Ticker).Warn("failed to persist watchlist entry", "error", err)
		}
	}

	return res, nil
}

// Watchlist returns the tracked symbols sorted by descending score
func (a *App) Watchlist() []models.WatchlistEntry {
	return a.watchlist.All()
}

// UnwatchSymbol removes a ticker from the watchlist
func (a *App) UnwatchSymbol(ctx context.Context, raw string) {
	symbol := models.Normalize(raw)
	a.watchlist.Remove(symbol.Ticker)
	if a.repo != nil {
		if err := a.repo.RemoveWatchlistEntry(ctx, symbol.Ticker); err != nil {
			observability.WithSymbol(symbol.Ticker).Warn("failed to remove persisted watchlist entry", "error", err)
		}
	}
}

// InvalidateCachedSeries drops the memoized series for a ticker so the next
// analysis pass fetches fresh data. A no-op without a repository.
func (a *App) InvalidateCachedSeries(ctx context.Context, raw string) error {
	if a.repo == nil {
		return nil
	}
	symbol := models.Normalize(raw)
	return a.repo.InvalidateSeries(ctx, symbol, analyzer.SeriesDataType)
}

// ClearWatchlist removes every tracked symbol
func (a *App) ClearWatchlist(ctx context.Context) {
	a.watchlist.Clear()
	if a.repo != nil {
		if err := a.repo.ClearWatchlist(ctx); err != nil {
			observability.Warn("failed to clear persisted watchlist", "error", err)
		}
	}
}
