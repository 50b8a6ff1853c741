// Package transactions characterizes spending: totals, breakdowns, anomalies,
// trend, recurring charges and budget suggestions.
package transactions

import (
	"sort"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/pkg/formulas"
	"github.com/rs/zerolog"
)

const (
	maxAnomalies = 20
	maxMerchants = 10
)

// Analyzer computes transaction statistics. It holds no state besides the logger
// and is safe for concurrent use.
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer creates a new transaction analyzer
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{
		log: log.With().Str("component", "transaction_analyzer").Logger(),
	}
}

// AnalyzeTransactions aggregates txs into totals, breakdowns and anomalies.
// An empty input returns a zeroed analysis.
func (a *Analyzer) AnalyzeTransactions(txs []domain.Transaction) *Analysis {
	result := &Analysis{
		SpendingByCategory: []CategorySpending{},
		TopMerchants:       []MerchantFrequency{},
		Anomalies:          []Anomaly{},
	}
	if len(txs) == 0 {
		return result
	}

	amounts := make([]float64, 0, len(txs))
	var largest *domain.Transaction
	for i := range txs {
		tx := &txs[i]
		amounts = append(amounts, tx.Amount)

		if tx.IsSpending() {
			result.TotalSpending += tx.Amount
		}
		if tx.Type == domain.TransactionCredit {
			result.TotalIncome += tx.Amount
		}
		if largest == nil || tx.Amount > largest.Amount {
			largest = tx
		}
		if result.DateRange.Start.IsZero() || tx.Date.Before(result.DateRange.Start) {
			result.DateRange.Start = tx.Date
		}
		if tx.Date.After(result.DateRange.End) {
			result.DateRange.End = tx.Date
		}
	}

	result.TransactionCount = len(txs)
	result.NetFlow = result.TotalIncome - result.TotalSpending
	result.AverageTransaction = formulas.Mean(amounts)
	result.LargestTransaction = &LargestTransaction{
		ID:       largest.ID,
		Amount:   largest.Amount,
		Category: largest.Category,
		Merchant: largest.Merchant,
	}
	result.SpendingByCategory = categoryBreakdown(txs, result.TotalSpending)
	result.TopMerchants = topMerchants(txs, maxMerchants)
	result.Anomalies = DetectAnomalies(txs)

	a.log.Debug().
		Int("transactions", result.TransactionCount).
		Float64("total_spending", result.TotalSpending).
		Float64("total_income", result.TotalIncome).
		Int("anomalies", len(result.Anomalies)).
		Msg("Transactions analyzed")

	return result
}

// categoryBreakdown groups spending by category, sorted by total descending
func categoryBreakdown(txs []domain.Transaction, totalSpending float64) []CategorySpending {
	byCategory := make(map[string]*CategorySpending)
	for _, tx := range txs {
		if !tx.IsSpending() {
			continue
		}
		row, ok := byCategory[tx.Category]
		if !ok {
			row = &CategorySpending{Category: tx.Category}
			byCategory[tx.Category] = row
		}
		row.Total += tx.Amount
		row.Count++
	}

	rows := make([]CategorySpending, 0, len(byCategory))
	for _, row := range byCategory {
		row.Percentage = formulas.Round(formulas.Percentage(row.Total, totalSpending), 2)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// topMerchants returns the most frequent merchants, ties broken by total then name
func topMerchants(txs []domain.Transaction, limit int) []MerchantFrequency {
	byMerchant := make(map[string]*MerchantFrequency)
	for _, tx := range txs {
		if tx.Merchant == "" {
			continue
		}
		row, ok := byMerchant[tx.Merchant]
		if !ok {
			row = &MerchantFrequency{Merchant: tx.Merchant}
			byMerchant[tx.Merchant] = row
		}
		row.Count++
		row.Total += tx.Amount
	}

	rows := make([]MerchantFrequency, 0, len(byMerchant))
	for _, row := range byMerchant {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Merchant < rows[j].Merchant
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
