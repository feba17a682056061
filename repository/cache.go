package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"protrader/models"
	"protrader/observability"
)

// GetSeries retrieves a cached series snapshot for a symbol and data type.
// Expiry is checked by the database to avoid timezone drift; callers within
// the same TTL bucket may observe a stale-but-consistent snapshot, which is
// the intended memoization behavior.
func (r *Repository) GetSeries(ctx context.Context, symbol models.Symbol, dataType string) (models.Series, bool) {
	var data []byte

	err := r.db.QueryRow(ctx, `
		SELECT data FROM market_data_cache
		WHERE symbol = $1 AND data_type = $2 AND expires_at > NOW()
	`, symbol.Ticker, dataType).Scan(&data)

	if err == pgx.ErrNoRows {
		return nil, false
	}
	if err != nil {
		observability.WithSymbol(symbol.Ticker).Warn("cache lookup failed", "error", err)
		return nil, false
	}

	var series models.Series
	if err := json.Unmarshal(data, &series); err != nil {
		observability.WithSymbol(symbol.Ticker).Warn("cache entry corrupt, ignoring", "error", err)
		return nil, false
	}

	return series, true
}

// SetSeries stores a series snapshot with a TTL, replacing any previous
// snapshot for the same (symbol, data type) key.
func (r *Repository) SetSeries(ctx context.Context, symbol models.Symbol, dataType string, series models.Series, ttl time.Duration) error {
	data, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("failed to marshal series: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO market_data_cache (symbol, data_type, data, expires_at)
		VALUES ($1, $2, $3, NOW() + $4::interval)
		ON CONFLICT (symbol, data_type)
		DO UPDATE SET data = EXCLUDED.data, expires_at = NOW() + $4::interval, created_at = NOW()
	`, symbol.Ticker, dataType, data, ttl.String())

	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// InvalidateSeries removes the cached snapshot for a symbol and data type
func (r *Repository) InvalidateSeries(ctx context.Context, symbol models.Symbol, dataType string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM market_data_cache WHERE symbol = $1 AND data_type = $2
	`, symbol.Ticker, dataType)

	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	return nil
}

// CleanExpiredCache removes all expired cache entries
func (r *Repository) CleanExpiredCache(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM market_data_cache WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to clean expired cache: %w", err)
	}
	return result.RowsAffected(), nil
}
