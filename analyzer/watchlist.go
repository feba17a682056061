package analyzer

import (
	"sort"
	"sync"
	"time"

	"protrader/models"
)

// Watchlist is an explicit replace-by-key store of tracked symbols, owned by
// the calling layer and passed by reference into analysis passes. Appended
// to by a single logical request thread; the lock only guards against
// concurrent HTTP readers.
type Watchlist struct {
	mu      sync.RWMutex
	entries map[string]models.WatchlistEntry
}

// NewWatchlist creates an empty watchlist
func NewWatchlist() *Watchlist {
	return &Watchlist{
		entries: make(map[string]models.WatchlistEntry),
	}
}

// Upsert inserts or replaces the entry for a symbol
func (w *Watchlist) Upsert(symbol models.Symbol, score int, label models.TrendLabel) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries[symbol.Ticker] = models.WatchlistEntry{
		Symbol:    symbol,
		Score:     score,
		Label:     label,
		UpdatedAt: time.Now(),
	}
}

// Remove drops the entry for a ticker if present
func (w *Watchlist) Remove(ticker string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.entries, ticker)
}

// Clear removes every entry
func (w *Watchlist) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = make(map[string]models.WatchlistEntry)
}

// All returns the entries sorted by descending score, ties by ticker
func (w *Watchlist) All() []models.WatchlistEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]models.WatchlistEntry, 0, len(w.entries))
	for _, e := range w.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Symbol.Ticker < out[j].Symbol.Ticker
	})
	return out
}

// Len returns the number of tracked symbols
func (w *Watchlist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entries)
}
