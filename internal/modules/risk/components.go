package risk

import (
	"math"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/transactions"
	"github.com/aristath/ledgerwise/pkg/formulas"
)

const (
	trailingWindow         = 30 * 24 * time.Hour
	staleActivityIdleRatio = 60.0
	neutralIncomeStability = 50.0
)

// CalculateComponents derives the score inputs from a transaction history
func CalculateComponents(txs []domain.Transaction, totalCapital float64, asOf time.Time) Components {
	c := Components{
		MonthlySpending:    MonthlySpending(txs, asOf),
		SpendingVolatility: SpendingVolatility(txs),
		IncomeStability:    IncomeStability(txs),
	}
	c.IdleCapitalRatio, c.InactivityDays = IdleCapitalRatio(txs, asOf)
	if totalCapital > 0 {
		c.IdleCapitalAmount = formulas.Round(totalCapital*c.IdleCapitalRatio/100, 2)
	}
	return c
}

// MonthlySpending sums non-transfer debits in the 30 days up to asOf
func MonthlySpending(txs []domain.Transaction, asOf time.Time) float64 {
	cutoff := asOf.Add(-trailingWindow)
	var total float64
	for _, tx := range txs {
		if tx.IsSpending() && tx.Date.After(cutoff) && !tx.Date.After(asOf) {
			total += tx.Amount
		}
	}
	return total
}

// SpendingVolatility is the coefficient of variation of monthly debit totals,
// as a percentage. Fewer than two months of debits yields 0.
func SpendingVolatility(txs []domain.Transaction) float64 {
	monthly := monthlyValues(txs, domain.TransactionDebit)
	if len(monthly) < 2 {
		return 0
	}
	return formulas.CoefficientOfVariation(monthly) * 100
}

// IncomeStability is 100 − CV(monthly credits)×100, floored at 0.
// Fewer than two months of credits yields the neutral 50.
func IncomeStability(txs []domain.Transaction) float64 {
	monthly := monthlyValues(txs, domain.TransactionCredit)
	if len(monthly) < 2 {
		return neutralIncomeStability
	}
	return math.Max(0, 100-formulas.CoefficientOfVariation(monthly)*100)
}

// IdleCapitalRatio estimates how much capital sits unused from recent activity:
// 100 with no transactions at all, a flat 60 once the latest transaction is
// more than 30 days old, otherwise twice the days of inactivity.
func IdleCapitalRatio(txs []domain.Transaction, asOf time.Time) (ratio float64, inactivityDays int) {
	if len(txs) == 0 {
		return 100, 0
	}

	latest := txs[0].Date
	for _, tx := range txs[1:] {
		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}

	inactivityDays = int(asOf.Sub(latest).Hours() / 24)
	if asOf.Sub(latest) > trailingWindow {
		return staleActivityIdleRatio, inactivityDays
	}
	return formulas.Clamp(float64(2*inactivityDays), 0, 100), inactivityDays
}

func monthlyValues(txs []domain.Transaction, typ domain.TransactionType) []float64 {
	totals := transactions.MonthlyTotals(txs, func(tx domain.Transaction) bool { return tx.Type == typ })
	values := make([]float64, len(totals))
	for i, m := range totals {
		values[i] = m.Total
	}
	return values
}
