package transactions

import (
	"math"
	"sort"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
)

const (
	minRecurringOccurrences  = 3
	recurringAmountTolerance = 0.01
)

// IdentifyRecurringTransactions finds merchants charging the same amount at
// least three times. Cadence is derived from the mean gap between charges.
func (a *Analyzer) IdentifyRecurringTransactions(txs []domain.Transaction) []Recurring {
	byMerchant := make(map[string][]domain.Transaction)
	for _, tx := range txs {
		if tx.Type != domain.TransactionDebit || tx.Merchant == "" {
			continue
		}
		byMerchant[tx.Merchant] = append(byMerchant[tx.Merchant], tx)
	}

	out := []Recurring{}
	for merchant, group := range byMerchant {
		if len(group) < minRecurringOccurrences {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })

		if !sameAmount(group) {
			continue
		}

		first, last := group[0].Date, group[len(group)-1].Date
		gapDays := last.Sub(first).Hours() / 24 / float64(len(group)-1)

		out = append(out, Recurring{
			LastDate:     last,
			NextExpected: last.Add(time.Duration(gapDays * 24 * float64(time.Hour))),
			Merchant:     merchant,
			Category:     group[0].Category,
			Frequency:    classifyCadence(gapDays),
			Amount:       group[0].Amount,
			AverageGap:   math.Round(gapDays*10) / 10,
			Count:        len(group),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Merchant < out[j].Merchant
	})

	a.log.Debug().Int("recurring", len(out)).Msg("Recurring transactions identified")
	return out
}

func sameAmount(group []domain.Transaction) bool {
	ref := group[0].Amount
	for _, tx := range group[1:] {
		if math.Abs(tx.Amount-ref) > recurringAmountTolerance {
			return false
		}
	}
	return true
}

func classifyCadence(gapDays float64) Frequency {
	switch {
	case gapDays < 2:
		return FrequencyDaily
	case gapDays < 10:
		return FrequencyWeekly
	case gapDays < 35:
		return FrequencyMonthly
	default:
		return FrequencyIrregular
	}
}
