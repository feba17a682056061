package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar represents one daily OHLCV trading-session record.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Series is an ordered sequence of bars, ascending by date, no duplicate
// dates. Once fetched it is treated as immutable for the analysis pass.
type Series []Bar

// MinHistory is the shortest series the scoring pipeline accepts: the long
// moving-average window. Shorter series degrade to a neutral result.
const MinHistory = 60

// Len returns the number of bars.
func (s Series) Len() int { return len(s) }

// Sufficient reports whether the series is long enough for indicator
// computation.
func (s Series) Sufficient() bool { return len(s) >= MinHistory }

// Closes returns the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the volume column.
func (s Series) Volumes() []int64 {
	out := make([]int64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

// Tail returns the trailing n bars, or the whole series if it is shorter.
// The returned slice aliases the series; callers must not mutate it.
func (s Series) Tail(n int) Series {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// Last returns the most recent bar. It panics on an empty series; callers
// check Len first.
func (s Series) Last() Bar { return s[len(s)-1] }

// Quote is the latest-price snapshot derived from the last two closes.
type Quote struct {
	Symbol        Symbol          `json:"symbol"`
	Last          decimal.Decimal `json:"last"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Volume        int64           `json:"volume"`
	Timestamp     time.Time       `json:"timestamp"`
}

// NewQuote builds a Quote from the trailing bars of a series. Change fields
// are zero when fewer than two bars are available.
func NewQuote(sym Symbol, series Series) Quote {
	q := Quote{Symbol: sym, Timestamp: time.Now()}
	if len(series) == 0 {
		return q
	}
	last := series.Last()
	q.Last = decimal.NewFromFloat(last.Close).Round(2)
	q.Volume = last.Volume
	if len(series) >= 2 {
		prev := series[len(series)-2].Close
		change := last.Close - prev
		q.Change = decimal.NewFromFloat(change).Round(2)
		if prev != 0 {
			q.ChangePercent = decimal.NewFromFloat(change / prev * 100).Round(2)
		}
	}
	return q
}

// NewsArticle represents a news headline about a symbol.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}
