package repository

import (
	"context"
	"fmt"

	"protrader/models"
)

// UpsertWatchlistEntry inserts or replaces the persisted entry for a symbol
func (r *Repository) UpsertWatchlistEntry(ctx context.Context, entry models.WatchlistEntry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO watchlist (ticker, region, score, label, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (ticker)
		DO UPDATE SET region = EXCLUDED.region, score = EXCLUDED.score,
		              label = EXCLUDED.label, updated_at = NOW()
	`, entry.Symbol.Ticker, string(entry.Symbol.Region), entry.Score, string(entry.Label))

	if err != nil {
		return fmt.Errorf("failed to upsert watchlist entry: %w", err)
	}
	return nil
}

// GetWatchlist returns all persisted entries ordered by descending score
func (r *Repository) GetWatchlist(ctx context.Context) ([]models.WatchlistEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ticker, region, score, label, updated_at
		FROM watchlist
		ORDER BY score DESC, ticker ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []models.WatchlistEntry
	for rows.Next() {
		var e models.WatchlistEntry
		var region, label string
		if err := rows.Scan(&e.Symbol.Ticker, &region, &e.Score, &label, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		e.Symbol.Region = models.MarketRegion(region)
		e.Label = models.TrendLabel(label)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// RemoveWatchlistEntry drops the persisted entry for a ticker
func (r *Repository) RemoveWatchlistEntry(ctx context.Context, ticker string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM watchlist WHERE ticker = $1`, ticker)
	if err != nil {
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	return nil
}

// ClearWatchlist removes every persisted entry
func (r *Repository) ClearWatchlist(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM watchlist`)
	if err != nil {
		return fmt.Errorf("failed to clear watchlist: %w", err)
	}
	return nil
}
