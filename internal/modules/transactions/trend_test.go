package transactions

import (
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthly(amounts ...float64) []domain.Transaction {
	var txs []domain.Transaction
	for i, amt := range amounts {
		txs = append(txs, domain.Transaction{
			ID:       string(rune('a' + i)),
			Date:     time.Date(2026, time.Month(i+1), 10, 9, 0, 0, 0, time.UTC),
			Amount:   amt,
			Category: "living",
			Type:     domain.TransactionDebit,
		})
	}
	return txs
}

func TestCalculateSpendingTrend(t *testing.T) {
	tests := []struct {
		name      string
		txs       []domain.Transaction
		direction TrendDirection
		slope     float64
		projected float64
	}{
		{"no data", nil, TrendStable, 0, 0},
		{"single month", monthly(900), TrendStable, 0, 0},
		{"increasing", monthly(1000, 1200, 1400), TrendIncreasing, 200, 1600},
		{"decreasing", monthly(1400, 1200, 1000), TrendDecreasing, -200, 800},
		{"flat within band", monthly(1000, 1040, 1080), TrendStable, 40, 1120},
	}

	a := newTestAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := a.CalculateSpendingTrend(tt.txs)
			assert.Equal(t, tt.direction, trend.Direction)
			assert.InDelta(t, tt.slope, trend.Slope, 1e-6)
			assert.InDelta(t, tt.projected, trend.Projected, 1e-6)
		})
	}
}

func TestMonthlyTotals_ExcludesTransfersAndSorts(t *testing.T) {
	txs := monthly(300, 100)
	txs = append(txs, domain.Transaction{
		ID: "x", Date: time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
		Amount: 999, Category: domain.CategoryTransfer, Type: domain.TransactionDebit,
	})

	totals := MonthlyTotals(txs, domain.Transaction.IsSpending)
	require.Len(t, totals, 2)
	assert.Equal(t, MonthTotal{Month: "2026-01", Total: 300}, totals[0])
	assert.Equal(t, MonthTotal{Month: "2026-02", Total: 100}, totals[1])
}
