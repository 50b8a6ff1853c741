package transactions

import (
	"fmt"
	"sort"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/pkg/formulas"
)

const rapidSuccessionWindow = 5 * time.Minute

// DetectAnomalies flags unusual transactions. Heuristics run in a fixed order
// (high value, first occurrence, weekend, rapid succession) and the combined
// list is capped at 20 entries.
func DetectAnomalies(txs []domain.Transaction) []Anomaly {
	anomalies := []Anomaly{}
	if len(txs) == 0 {
		return anomalies
	}

	amounts := make([]float64, len(txs))
	for i, tx := range txs {
		amounts[i] = tx.Amount
	}
	mean := formulas.Mean(amounts)
	std := formulas.PopStdDev(amounts)

	anomalies = append(anomalies, highValue(txs, mean, std)...)
	anomalies = append(anomalies, firstOccurrences(txs)...)
	anomalies = append(anomalies, weekendDebits(txs)...)
	anomalies = append(anomalies, rapidSuccession(txs)...)

	if len(anomalies) > maxAnomalies {
		anomalies = anomalies[:maxAnomalies]
	}
	return anomalies
}

func highValue(txs []domain.Transaction, mean, std float64) []Anomaly {
	var out []Anomaly
	if std == 0 {
		return out
	}
	for _, tx := range txs {
		if tx.Type != domain.TransactionDebit {
			continue
		}
		var severity AnomalySeverity
		switch {
		case tx.Amount > mean+3*std:
			severity = AnomalyHigh
		case tx.Amount > mean+2*std:
			severity = AnomalyMedium
		default:
			continue
		}
		out = append(out, Anomaly{
			Date:          tx.Date,
			TransactionID: tx.ID,
			Type:          AnomalyHighValue,
			Severity:      severity,
			Amount:        tx.Amount,
			Description: fmt.Sprintf("%.2f is %.1f standard deviations above the average of %.2f",
				tx.Amount, (tx.Amount-mean)/std, mean),
		})
	}
	return out
}

func firstOccurrences(txs []domain.Transaction) []Anomaly {
	counts := make(map[string]int)
	for _, tx := range txs {
		if tx.Type == domain.TransactionDebit {
			counts[tx.Category]++
		}
	}

	var out []Anomaly
	for _, tx := range txs {
		if tx.Type != domain.TransactionDebit || counts[tx.Category] != 1 {
			continue
		}
		out = append(out, Anomaly{
			Date:          tx.Date,
			TransactionID: tx.ID,
			Type:          AnomalyFirstOccurrence,
			Severity:      AnomalyLow,
			Amount:        tx.Amount,
			Description:   fmt.Sprintf("only transaction in category %q", tx.Category),
		})
	}
	return out
}

func weekendDebits(txs []domain.Transaction) []Anomaly {
	var out []Anomaly
	for _, tx := range txs {
		if tx.Type != domain.TransactionDebit {
			continue
		}
		day := tx.Date.Weekday()
		if day != time.Saturday && day != time.Sunday {
			continue
		}
		out = append(out, Anomaly{
			Date:          tx.Date,
			TransactionID: tx.ID,
			Type:          AnomalyWeekend,
			Severity:      AnomalyLow,
			Amount:        tx.Amount,
			Description:   fmt.Sprintf("debit on a %s", day),
		})
	}
	return out
}

// rapidSuccession compares only neighbours in date order; two near-simultaneous
// transactions separated by a third are not paired.
func rapidSuccession(txs []domain.Transaction) []Anomaly {
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var out []Anomaly
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Date.Sub(sorted[i-1].Date)
		if gap >= rapidSuccessionWindow {
			continue
		}
		tx := sorted[i]
		out = append(out, Anomaly{
			Date:          tx.Date,
			TransactionID: tx.ID,
			Type:          AnomalyRapidSuccession,
			Severity:      AnomalyMedium,
			Amount:        tx.Amount,
			Description:   fmt.Sprintf("%s after transaction %s", gap.Round(time.Second), sorted[i-1].ID),
		})
	}
	return out
}
