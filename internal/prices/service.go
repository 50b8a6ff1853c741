package prices

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/rs/zerolog"
)

// Service resolves missing asset prices through the persisted cache and a source
type Service struct {
	source domain.PriceSource
	repo   *Repository
	clock  domain.Clock
	ttl    time.Duration
	log    zerolog.Logger
}

// NewService creates a price service. repo may be nil for an in-memory-only cache.
func NewService(source domain.PriceSource, repo *Repository, clock domain.Clock, ttl time.Duration, log zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Service{
		source: source,
		repo:   repo,
		clock:  clock,
		ttl:    ttl,
		log:    log.With().Str("component", "prices").Logger(),
	}
}

// Resolve fills missing prices on assets. Assets that still have no price
// after the refresh keep a zero price and count as zero value.
func (s *Service) Resolve(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error) {
	var missing []string
	for _, a := range assets {
		if a.CurrentPrice <= 0 {
			missing = append(missing, a.ID)
		}
	}
	if len(missing) == 0 {
		return assets, nil
	}

	cache := make(Cache)
	if s.repo != nil {
		loaded, err := s.repo.Load(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("Price cache unavailable, fetching directly")
		} else {
			cache = loaded
		}
	}

	now := s.clock.Now()
	if s.source != nil {
		refreshed, result, err := Refresh(ctx, cache, s.source, missing, now, s.ttl, s.log)
		if err != nil {
			return nil, fmt.Errorf("refresh prices: %w", err)
		}
		cache = refreshed
		s.persist(ctx, cache, result.Updated)
	}

	return Apply(assets, cache), nil
}

func (s *Service) persist(ctx context.Context, cache Cache, updated []string) {
	if s.repo == nil || len(updated) == 0 {
		return
	}
	entries := make([]Entry, 0, len(updated))
	for _, id := range updated {
		entries = append(entries, cache[id])
	}
	if err := s.repo.Store(ctx, entries, s.ttl); err != nil {
		s.log.Warn().Err(err).Int("count", len(entries)).Msg("Failed to persist prices")
	}
}

// RefreshTracked refreshes every stale entry already present in the persisted cache
func (s *Service) RefreshTracked(ctx context.Context) (RefreshResult, error) {
	if s.repo == nil || s.source == nil {
		return RefreshResult{}, nil
	}
	cache, err := s.repo.Load(ctx)
	if err != nil {
		return RefreshResult{}, err
	}
	ids := make([]string, 0, len(cache))
	for id := range cache {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	refreshed, result, err := Refresh(ctx, cache, s.source, ids, s.clock.Now(), s.ttl, s.log)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("refresh prices: %w", err)
	}
	s.persist(ctx, refreshed, result.Updated)
	return result, nil
}
