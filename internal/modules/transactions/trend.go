package transactions

import (
	"sort"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/pkg/formulas"
)

const trendSlopeThreshold = 50.0

const monthLayout = "2006-01"

// MonthlyTotals sums the transactions accepted by include per calendar month,
// ascending by month. Months without a matching transaction are omitted; the
// regression treats the observed months as equally spaced.
func MonthlyTotals(txs []domain.Transaction, include func(domain.Transaction) bool) []MonthTotal {
	sums := make(map[string]float64)
	for _, tx := range txs {
		if include(tx) {
			sums[tx.Date.Format(monthLayout)] += tx.Amount
		}
	}

	out := make([]MonthTotal, 0, len(sums))
	for month, total := range sums {
		out = append(out, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CalculateSpendingTrend fits a least-squares line through monthly spending.
func (a *Analyzer) CalculateSpendingTrend(txs []domain.Transaction) Trend {
	monthly := MonthlyTotals(txs, domain.Transaction.IsSpending)
	trend := Trend{Direction: TrendStable, MonthlyTotals: monthly}
	if len(monthly) < 2 {
		return trend
	}

	ys := make([]float64, len(monthly))
	for i, m := range monthly {
		ys[i] = m.Total
	}
	slope, intercept := formulas.LinearRegression(ys)
	trend.Slope = slope
	trend.Intercept = intercept
	trend.Projected = slope*float64(len(ys)) + intercept

	switch {
	case slope > trendSlopeThreshold:
		trend.Direction = TrendIncreasing
	case slope < -trendSlopeThreshold:
		trend.Direction = TrendDecreasing
	}

	a.log.Debug().
		Int("months", len(ys)).
		Float64("slope", slope).
		Str("trend", string(trend.Direction)).
		Msg("Spending trend calculated")

	return trend
}
