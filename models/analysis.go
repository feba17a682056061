package models

import (
	"time"

	"github.com/google/uuid"
)

// TrendLabel is the discrete classification derived from the composite score.
type TrendLabel string

const (
	TrendStrongBullish     TrendLabel = "strong bullish"
	TrendMildlyBullish     TrendLabel = "mildly bullish"
	TrendBearishCorrection TrendLabel = "bearish correction"
	TrendNeutral           TrendLabel = "consolidating/neutral"
	TrendInsufficientData  TrendLabel = "insufficient data"
)

// VolumeBin is one bucket of the volume profile: total volume traded while
// the close sat inside [Low, High).
type VolumeBin struct {
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
	Volume int64   `json:"volume"`
}

// IndicatorSet is a derived, read-only view over a Series. Pointer fields
// are nil when the underlying value is undefined; downstream logic must
// treat absence as a distinct state, never substitute zero.
type IndicatorSet struct {
	ShortMA *float64    `json:"short_ma,omitempty"` // 20-session simple mean of close
	LongMA  *float64    `json:"long_ma,omitempty"`  // 60-session simple mean of close
	Bias    *float64    `json:"bias,omitempty"`     // % deviation of latest close from ShortMA
	Profile []VolumeBin `json:"profile,omitempty"`  // nil when the sub-window has < 2 points
}

// HeaviestBin returns the mid price of the profile bin with the most volume,
// or false when the profile is absent.
func (i *IndicatorSet) HeaviestBin() (float64, bool) {
	if i == nil || len(i.Profile) == 0 {
		return 0, false
	}
	best := i.Profile[0]
	for _, b := range i.Profile[1:] {
		if b.Volume > best.Volume {
			best = b
		}
	}
	return (best.Low + best.High) / 2, true
}

// Diagnostics is the structured form of the per-indicator posture readout
// the UI renders as cards.
type Diagnostics struct {
	AboveLongMA    *bool    `json:"above_long_ma,omitempty"`  // close vs MA60
	BiasState      string   `json:"bias_state,omitempty"`     // overheated / oversold / normal
	SupportAbove   *bool    `json:"support_above,omitempty"`  // close above heaviest volume bin
	HeaviestVolume *float64 `json:"heaviest_price,omitempty"` // mid price of heaviest bin
}

// AnalysisResult is what one analysis pass produces for one ticker. It is
// the seam the excluded UI layer consumes.
type AnalysisResult struct {
	ID          uuid.UUID     `json:"id"`
	Input       string        `json:"input"`
	Symbol      Symbol        `json:"symbol"`
	DisplayName string        `json:"display_name"`
	Available   bool          `json:"available"` // false when the fetcher exhausted retries
	Quote       *Quote        `json:"quote,omitempty"`
	Series      Series        `json:"series,omitempty"`
	Indicators  *IndicatorSet `json:"indicators,omitempty"` // nil when history is insufficient
	Score       int           `json:"score"`
	Label       TrendLabel    `json:"label"`
	Diagnostics *Diagnostics  `json:"diagnostics,omitempty"`
	AISummary   string        `json:"ai_summary,omitempty"`
	AnalyzedAt  time.Time     `json:"analyzed_at"`
}

// RankingEntry is one row of the batch ranking table.
type RankingEntry struct {
	DisplayName string     `json:"display_name"`
	Score       int        `json:"score"`
	Label       TrendLabel `json:"label"`
}

// WatchlistEntry is one tracked symbol with its latest analysis snapshot.
type WatchlistEntry struct {
	Symbol    Symbol     `json:"symbol"`
	Score     int        `json:"score"`
	Label     TrendLabel `json:"label"`
	UpdatedAt time.Time  `json:"updated_at"`
}
