package transactions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
)

// MemoryStore keeps per-user transactions in memory.
// Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string][]domain.Transaction
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string][]domain.Transaction)}
}

// Add validates and appends transactions for a user. Entries with an ID
// already stored for that user replace the previous entry.
func (s *MemoryStore) Add(userID string, txs ...domain.Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.users[userID]
	index := make(map[string]int, len(existing))
	for i, tx := range existing {
		if tx.ID != "" {
			index[tx.ID] = i
		}
	}
	for _, tx := range txs {
		if i, ok := index[tx.ID]; ok && tx.ID != "" {
			existing[i] = tx
			continue
		}
		existing = append(existing, tx)
		if tx.ID != "" {
			index[tx.ID] = len(existing) - 1
		}
	}
	sort.SliceStable(existing, func(i, j int) bool { return existing[i].Date.Before(existing[j].Date) })
	s.users[userID] = existing
	return nil
}

// Transactions returns the user's transactions dated within [from, to], oldest first.
// A zero bound is open.
func (s *MemoryStore) Transactions(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, 0, len(s.users[userID]))
	for _, tx := range s.users[userID] {
		if !from.IsZero() && tx.Date.Before(from) {
			continue
		}
		if !to.IsZero() && tx.Date.After(to) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// Users returns the IDs of users with stored transactions
func (s *MemoryStore) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var _ domain.TransactionStore = (*MemoryStore)(nil)
