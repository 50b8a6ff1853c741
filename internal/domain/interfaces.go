package domain

import (
	"context"
	"time"
)

// TransactionStore returns transactions for a user within [from, to].
// Implementations are read-only from the core's point of view.
type TransactionStore interface {
	Transactions(ctx context.Context, userID string, from, to time.Time) ([]Transaction, error)
}

// PriceSource looks up the current price of a holding. Prices may be stale;
// callers must tolerate a zero price or ErrPriceUnavailable.
type PriceSource interface {
	CurrentPrice(ctx context.Context, assetID string) (float64, error)
}

// Clock abstracts time.Now so analyses are reproducible in tests
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant
type FixedClock time.Time

// Now returns the fixed instant
func (c FixedClock) Now() time.Time { return time.Time(c) }
