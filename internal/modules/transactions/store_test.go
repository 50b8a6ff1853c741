package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeTx(id string, day int, amount float64) domain.Transaction {
	return domain.Transaction{
		ID:       id,
		Date:     time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC),
		Category: "groceries",
		Type:     domain.TransactionDebit,
		Amount:   amount,
	}
}

func TestMemoryStore_RangeAndOrder(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Add("u1", storeTx("c", 20, 30), storeTx("a", 1, 10), storeTx("b", 10, 20)))
	require.NoError(t, s.Add("u2", storeTx("x", 5, 99)))

	all, err := s.Transactions(context.Background(), "u1", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

	from := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	window, err := s.Transactions(context.Background(), "u1", from, to)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "b", window[0].ID)

	none, err := s.Transactions(context.Background(), "nobody", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.Equal(t, []string{"u1", "u2"}, s.Users())
}

func TestMemoryStore_ReplacesByID(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Add("u1", storeTx("a", 1, 10)))
	require.NoError(t, s.Add("u1", storeTx("a", 1, 15)))

	txs, err := s.Transactions(context.Background(), "u1", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 15.0, txs[0].Amount)
}

func TestMemoryStore_RejectsInvalid(t *testing.T) {
	s := NewMemoryStore()
	bad := storeTx("a", 1, -5)
	assert.Error(t, s.Add("u1", bad))
	assert.Empty(t, s.Users())
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Transactions(ctx, "u1", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, context.Canceled)
}
