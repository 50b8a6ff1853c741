package prices

import (
	"context"
	"fmt"
	"sync"

	"github.com/aristath/ledgerwise/internal/domain"
)

// ManualSource serves prices that were entered by hand
type ManualSource struct {
	mu     sync.RWMutex
	prices map[string]float64
}

// NewManualSource creates an empty manual price source
func NewManualSource() *ManualSource {
	return &ManualSource{prices: make(map[string]float64)}
}

// Set records a price for an asset
func (s *ManualSource) Set(assetID string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[assetID] = price
}

// CurrentPrice returns the last entered price
func (s *ManualSource) CurrentPrice(ctx context.Context, assetID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.prices[assetID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrPriceUnavailable, assetID)
	}
	return price, nil
}
