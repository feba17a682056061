// Package analyzer wires symbol normalization, fetching, indicators,
// scoring, and news summarization into the caller-facing analysis seam.
// Processing is sequential per ticker; there is no parallel fan-out
// across a batch.
package analyzer

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"protrader/config"
	"protrader/indicators"
	"protrader/models"
	"protrader/observability"
	"protrader/scoring"
	"protrader/services"
)

// SeriesCache is the optional memoization seam, keyed on
// (symbol, data type, time bucket). The repository implements it; a nil
// cache disables memoization entirely.
type SeriesCache interface {
	GetSeries(ctx context.Context, symbol models.Symbol, dataType string) (models.Series, bool)
	SetSeries(ctx context.Context, symbol models.Symbol, dataType string, series models.Series, ttl time.Duration) error
}

// SeriesDataType is the cache key component for daily OHLCV snapshots.
const SeriesDataType = "daily_series"

// Analyzer runs one full analysis pass per ticker.
type Analyzer struct {
	fetcher    services.SeriesFetcher
	indicators *indicators.Engine
	scorer     *scoring.Engine
	summarizer *Summarizer
	cache      SeriesCache
	seriesTTL  time.Duration

	// bias band for the diagnostics readout, percent
	biasBand float64
}

// New creates an Analyzer. cache and the summarizer's LLM may be nil; both
// degrade gracefully.
func New(fetcher services.SeriesFetcher, summarizer *Summarizer, cache SeriesCache, cfg *config.Config) *Analyzer {
	return &Analyzer{
		fetcher:    fetcher,
		indicators: indicators.NewEngine(cfg.Analysis),
		scorer:     scoring.NewEngine(cfg.Analysis),
		summarizer: summarizer,
		cache:      cache,
		seriesTTL:  cfg.Cache.SeriesTTL,
		biasBand:   15,
	}
}

// AnalyzeTicker runs one analysis pass for raw user input. Nothing in the
// pipeline is fatal: fetch exhaustion, short history, undefined indicators
// and summary failures all degrade to well-defined neutral values on the
// result, and the returned error is always nil today (kept in the signature
// for the seam's evolution).
func (a *Analyzer) AnalyzeTicker(ctx context.Context, raw string) (*models.AnalysisResult, error) {
	symbol := models.Normalize(raw)

	metrics := observability.GetMetrics()
	metrics.RecordAnalysisRequest(string(symbol.Region))
	timer := metrics.NewTimer()

	result := &models.AnalysisResult{
		ID:          uuid.New(),
		Input:       raw,
		Symbol:      symbol,
		DisplayName: symbol.DisplayName(),
		Score:       50,
		Label:       models.TrendInsufficientData,
		AnalyzedAt:  time.Now(),
	}

	series, ok := a.lookupSeries(ctx, symbol)
	if !ok {
		fetched, err := a.fetcher.Fetch(ctx, symbol)
		if err != nil {
			timer.ObserveAnalysis("unavailable")
			result.Available = false
			return result, nil
		}
		series = fetched
		a.storeSeries(ctx, symbol, series)
	}

	result.Available = true
	result.Series = series
	quote := models.NewQuote(symbol, series)
	result.Quote = &quote

	set, err := a.indicators.Compute(series)
	if err != nil && !errors.Is(err, indicators.ErrInsufficientHistory) {
		observability.WithSymbol(symbol.Ticker).Warn("indicator computation degraded", "error", err)
	}
	result.Indicators = set

	result.Score, result.Label = a.scorer.Score(series, set)
	metrics.RecordAnalysisScore(string(symbol.Region), result.Score, string(result.Label))

	result.Diagnostics = a.diagnose(series, set)

	if a.summarizer != nil {
		result.AISummary = a.summarizer.Summarize(ctx, symbol, result.Label)
	}

	timer.ObserveAnalysis("ok")
	return result, nil
}

// AnalyzeBatch processes a comma separated multi-ticker input one ticker at
// a time and returns the results plus a ranking of the available ones,
// sorted by descending score.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, input string) ([]*models.AnalysisResult, []models.RankingEntry, error) {
	tokens := models.ParseTickerList(input)

	results := make([]*models.AnalysisResult, 0, len(tokens))
	ranking := make([]models.RankingEntry, 0, len(tokens))

	for _, token := range tokens {
		if ctx.Err() != nil {
			return results, ranking, ctx.Err()
		}

		res, err := a.AnalyzeTicker(ctx, token)
		if err != nil {
			return results, ranking, err
		}
		results = append(results, res)

		if res.Available {
			ranking = append(ranking, models.RankingEntry{
				DisplayName: res.DisplayName,
				Score:       res.Score,
				Label:       res.Label,
			})
		}
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})

	return results, ranking, nil
}

// lookupSeries consults the cache when one is configured
func (a *Analyzer) lookupSeries(ctx context.Context, symbol models.Symbol) (models.Series, bool) {
	if a.cache == nil {
		return nil, false
	}
	metrics := observability.GetMetrics()
	series, ok := a.cache.GetSeries(ctx, symbol, SeriesDataType)
	if ok {
		metrics.RecordCacheHit(SeriesDataType)
	} else {
		metrics.RecordCacheMiss(SeriesDataType)
	}
	return series, ok
}

// storeSeries writes through to the cache when one is configured
func (a *Analyzer) storeSeries(ctx context.Context, symbol models.Symbol, series models.Series) {
	if a.cache == nil {
		return
	}
	if err := a.cache.SetSeries(ctx, symbol, SeriesDataType, series, a.seriesTTL); err != nil {
		observability.WithSymbol(symbol.Ticker).Warn("series cache write failed", "error", err)
	}
}

// diagnose produces the structured per-indicator posture readout. Absent
// indicators leave the corresponding fields unset.
func (a *Analyzer) diagnose(series models.Series, set *models.IndicatorSet) *models.Diagnostics {
	if set == nil || len(series) == 0 {
		return nil
	}

	diag := &models.Diagnostics{}
	price := series.Last().Close

	if set.LongMA != nil {
		above := price > *set.LongMA
		diag.AboveLongMA = &above
	}

	if set.Bias != nil {
		switch {
		case *set.Bias > a.biasBand:
			diag.BiasState = "overheated"
		case *set.Bias < -a.biasBand:
			diag.BiasState = "oversold"
		default:
			diag.BiasState = "normal"
		}
	}

	if mid, ok := set.HeaviestBin(); ok {
		diag.HeaviestVolume = &mid
		above := price > mid
		diag.SupportAbove = &above
	}

	return diag
}
