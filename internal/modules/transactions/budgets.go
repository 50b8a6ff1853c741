package transactions

import (
	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/shopspring/decimal"
)

// budgetHeadroom is the 15% buffer applied on top of observed spending
var budgetHeadroom = decimal.RequireFromString("1.15")

// SuggestBudgets proposes ceil(category spending × 1.15) for every spending category.
func (a *Analyzer) SuggestBudgets(txs []domain.Transaction) []BudgetSuggestion {
	var total float64
	for _, tx := range txs {
		if tx.IsSpending() {
			total += tx.Amount
		}
	}

	breakdown := categoryBreakdown(txs, total)
	out := make([]BudgetSuggestion, 0, len(breakdown))
	for _, row := range breakdown {
		suggested := decimal.NewFromFloat(row.Total).Mul(budgetHeadroom).Ceil()
		out = append(out, BudgetSuggestion{
			Category:        row.Category,
			CurrentSpending: row.Total,
			SuggestedBudget: suggested.InexactFloat64(),
		})
	}
	return out
}
