package prices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/ledgerwise/internal/database"
	"github.com/vmihailenco/msgpack/v5"
)

// Repository persists the price cache so it survives restarts
type Repository struct {
	db *database.DB
}

// NewRepository creates a price repository on the cache database
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Store upserts entries with expires_at = FetchedAt + ttl
func (r *Repository) Store(ctx context.Context, entries []Entry, ttl time.Duration) error {
	return database.WithTransaction(ctx, r.db.Conn(), func(tx *sql.Tx) error {
		for _, e := range entries {
			payload, err := msgpack.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to encode price for %s: %w", e.AssetID, err)
			}
			_, err = tx.ExecContext(ctx,
				"INSERT OR REPLACE INTO price_cache (asset_id, expires_at, payload) VALUES (?, ?, ?)",
				e.AssetID, e.FetchedAt.Add(ttl).Unix(), payload,
			)
			if err != nil {
				return fmt.Errorf("failed to store price for %s: %w", e.AssetID, err)
			}
		}
		return nil
	})
}

// GetIfFresh returns the entry only if it has not expired at now.
// Returns nil, nil when the entry is missing or expired.
func (r *Repository) GetIfFresh(ctx context.Context, assetID string, now time.Time) (*Entry, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		"SELECT payload FROM price_cache WHERE asset_id = ? AND expires_at > ?", assetID, now.Unix(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read price for %s: %w", assetID, err)
	}

	var e Entry
	if err := msgpack.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("failed to decode price for %s: %w", assetID, err)
	}
	return &e, nil
}

// Load returns every stored entry, fresh or stale
func (r *Repository) Load(ctx context.Context) (Cache, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT payload FROM price_cache")
	if err != nil {
		return nil, fmt.Errorf("failed to query price cache: %w", err)
	}
	defer rows.Close()

	cache := make(Cache)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		var e Entry
		if err := msgpack.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("failed to decode price: %w", err)
		}
		cache[e.AssetID] = e
	}
	return cache, rows.Err()
}

// DeleteExpired removes entries that expired before now
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM price_cache WHERE expires_at <= ?", now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired prices: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
