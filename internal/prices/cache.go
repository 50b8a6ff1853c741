// Package prices keeps last known asset prices with a freshness window.
// The cache is a plain value owned by the caller; nothing here holds global state.
package prices

import (
	"context"
	"errors"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultTTL is how long a fetched price counts as fresh
const DefaultTTL = 10 * time.Minute

// Entry is a price observation
type Entry struct {
	FetchedAt time.Time `json:"fetched_at" msgpack:"fetched_at"`
	AssetID   string    `json:"asset_id" msgpack:"asset_id"`
	Price     float64   `json:"price" msgpack:"price"`
}

// Cache maps asset IDs to their last observed price
type Cache map[string]Entry

// IsFresh reports whether entry was fetched within ttl of now
func IsFresh(entry Entry, now time.Time, ttl time.Duration) bool {
	if entry.FetchedAt.IsZero() || entry.Price <= 0 {
		return false
	}
	return now.Sub(entry.FetchedAt) < ttl
}

// Clone returns an independent copy
func (c Cache) Clone() Cache {
	out := make(Cache, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Stale returns the IDs among ids that have no fresh entry
func (c Cache) Stale(ids []string, now time.Time, ttl time.Duration) []string {
	var stale []string
	for _, id := range ids {
		if !IsFresh(c[id], now, ttl) {
			stale = append(stale, id)
		}
	}
	return stale
}

// RefreshResult summarises a Refresh pass
type RefreshResult struct {
	Updated []string `json:"updated"`
	Kept    []string `json:"kept"`
}

// Refresh fetches every stale id from source and returns a new cache. A
// missing, failed or non-positive price keeps the prior entry. Only
// cancellation of ctx aborts the pass.
func Refresh(ctx context.Context, cache Cache, source domain.PriceSource, ids []string, now time.Time, ttl time.Duration, log zerolog.Logger) (Cache, RefreshResult, error) {
	next := cache.Clone()
	result := RefreshResult{Updated: []string{}, Kept: []string{}}

	for _, id := range cache.Stale(ids, now, ttl) {
		if err := ctx.Err(); err != nil {
			return cache, result, err
		}

		price, err := source.CurrentPrice(ctx, id)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return cache, result, err
		}
		if err != nil || price <= 0 {
			log.Debug().Err(err).Str("asset_id", id).Float64("price", price).Msg("Keeping prior price")
			result.Kept = append(result.Kept, id)
			continue
		}

		next[id] = Entry{AssetID: id, Price: price, FetchedAt: now}
		result.Updated = append(result.Updated, id)
	}

	return next, result, nil
}

// Apply fills CurrentPrice on assets that have none from the cache,
// including stale entries. Assets with a price are left as they are.
func Apply(assets []domain.Asset, cache Cache) []domain.Asset {
	out := make([]domain.Asset, len(assets))
	copy(out, assets)
	for i := range out {
		if out[i].CurrentPrice > 0 {
			continue
		}
		if e, ok := cache[out[i].ID]; ok && e.Price > 0 {
			out[i].CurrentPrice = e.Price
		}
	}
	return out
}
