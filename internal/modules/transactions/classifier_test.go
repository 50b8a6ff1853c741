package transactions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingClassifier struct{}

func (failingClassifier) Classify(context.Context, string, float64) (Classification, error) {
	return Classification{}, errors.New("model offline")
}

type fixedClassifier struct{ c Classification }

// blockingClassifier never answers on its own; it only returns once ctx ends.
type blockingClassifier struct{}

func (blockingClassifier) Classify(ctx context.Context, _ string, _ float64) (Classification, error) {
	<-ctx.Done()
	return Classification{}, ctx.Err()
}

// stuckClassifier ignores ctx entirely.
type stuckClassifier struct{ release chan struct{} }

func (s stuckClassifier) Classify(context.Context, string, float64) (Classification, error) {
	<-s.release
	return Classification{Category: "late", Type: domain.TransactionDebit}, nil
}

func (f fixedClassifier) Classify(context.Context, string, float64) (Classification, error) {
	return f.c, nil
}

func TestRuleClassifier(t *testing.T) {
	tests := []struct {
		desc     string
		category string
		txType   domain.TransactionType
	}{
		{"SALARY CREDIT ACME CORP", "income", domain.TransactionCredit},
		{"Netflix monthly subscription", "subscriptions", domain.TransactionDebit},
		{"IMPS transfer to savings", domain.CategoryTransfer, domain.TransactionTransfer},
		{"Annual card fee", "fees", domain.TransactionFee},
		{"Rs 500 credited to your account", "income", domain.TransactionCredit},
		{"POS 4411 unknown vendor", "uncategorized", domain.TransactionDebit},
		{"Monthly rent June", "housing", domain.TransactionDebit},
		{"Ola ride to airport", "transport", domain.TransactionDebit},
		{"DMART Andheri", "groceries", domain.TransactionDebit},
		{"Water bill Q2", "utilities", domain.TransactionDebit},
		{"Bank fees, quarterly", "fees", domain.TransactionFee},
		// Keywords inside longer words do not match.
		{"Current account maintenance", "uncategorized", domain.TransactionDebit},
		{"Parent association dues", "uncategorized", domain.TransactionDebit},
		{"Coca cola vending", "uncategorized", domain.TransactionDebit},
		{"Payola settlement", "uncategorized", domain.TransactionDebit},
		{"Walmart supercenter", "uncategorized", domain.TransactionDebit},
		{"Waterford crystal", "uncategorized", domain.TransactionDebit},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			c, err := RuleClassifier{}.Classify(context.Background(), tt.desc, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.category, c.Category)
			assert.Equal(t, tt.txType, c.Type)
		})
	}
}

func TestClassifyWithFallback(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	ctx := context.Background()

	c := ClassifyWithFallback(ctx, failingClassifier{}, 0, log, "Uber trip", 12)
	assert.Equal(t, "transport", c.Category)
	assert.Equal(t, "rules", c.Source)

	model := fixedClassifier{Classification{Category: "travel", Type: domain.TransactionDebit, Source: "gemini"}}
	c = ClassifyWithFallback(ctx, model, 0, log, "Uber trip", 12)
	assert.Equal(t, "travel", c.Category)

	bogus := fixedClassifier{Classification{Category: "travel", Type: "refund"}}
	c = ClassifyWithFallback(ctx, bogus, 0, log, "Uber trip", 12)
	assert.Equal(t, "rules", c.Source)
}

func TestIngest_RejectsNegativeAmounts(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	entries := []RawEntry{
		{ID: "1", Date: time.Now(), Description: "Swiggy order", Amount: 240},
		{ID: "2", Date: time.Now(), Description: "Swiggy order", Amount: -5},
	}

	_, err := Ingest(context.Background(), nil, 0, log, entries)
	assert.ErrorIs(t, err, domain.ErrInvalidTransaction)

	txs, err := Ingest(context.Background(), nil, 0, log, entries[:1])
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "dining", txs[0].Category)
}

func TestClassifyWithFallback_TimesOut(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})

	start := time.Now()
	c := ClassifyWithFallback(context.Background(), blockingClassifier{}, 50*time.Millisecond, log, "Uber trip", 12)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "transport", c.Category)
	assert.Equal(t, "rules", c.Source)

	stuck := stuckClassifier{release: make(chan struct{})}
	defer close(stuck.release)
	start = time.Now()
	c = ClassifyWithFallback(context.Background(), stuck, 50*time.Millisecond, log, "Swiggy order", 240)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "dining", c.Category)
}

func TestIngest_HangingClassifierFallsBack(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	entries := []RawEntry{
		{ID: "1", Date: time.Now(), Description: "ACME PAYROLL", Amount: 5000},
		{ID: "2", Date: time.Now(), Description: "Netflix monthly", Amount: 15},
		{ID: "3", Date: time.Now(), Description: "Monthly rent", Amount: 900},
	}

	start := time.Now()
	txs, err := Ingest(context.Background(), blockingClassifier{}, 20*time.Millisecond, log, entries)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	require.Len(t, txs, 3)
	assert.Equal(t, "income", txs[0].Category)
	assert.Equal(t, "subscriptions", txs[1].Category)
	assert.Equal(t, "housing", txs[2].Category)
}
