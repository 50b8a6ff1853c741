package transactions

import (
	"fmt"
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// weekdays returns n weekday offsets from monday, skipping weekends
func weekdays(n int) []int {
	var out []int
	for day := 0; len(out) < n; day++ {
		wd := monday.AddDate(0, 0, day).Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			out = append(out, day)
		}
	}
	return out
}

func anomaliesOfType(list []Anomaly, typ AnomalyType) []Anomaly {
	var out []Anomaly
	for _, a := range list {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}

func TestDetectAnomalies_HighValue(t *testing.T) {
	var txs []domain.Transaction
	for i, day := range weekdays(20) {
		amount := 10.0
		if i == 19 {
			amount = 1000
		}
		txs = append(txs, debit(fmt.Sprintf("t%d", i), day, amount, "groceries", "FreshMart"))
	}

	high := anomaliesOfType(DetectAnomalies(txs), AnomalyHighValue)
	require.Len(t, high, 1)
	assert.Equal(t, "t19", high[0].TransactionID)
	assert.Equal(t, AnomalyHigh, high[0].Severity)
}

func TestDetectAnomalies_HighValueMediumBand(t *testing.T) {
	var txs []domain.Transaction
	for i, day := range weekdays(8) {
		amount := 10.0
		if i == 7 {
			amount = 500
		}
		txs = append(txs, debit(fmt.Sprintf("t%d", i), day, amount, "groceries", ""))
	}

	// mean 71.25, sigma ~162: 500 clears mean+2σ (~395) but not mean+3σ (~557)
	high := anomaliesOfType(DetectAnomalies(txs), AnomalyHighValue)
	require.Len(t, high, 1)
	assert.Equal(t, AnomalyMedium, high[0].Severity)
}

func TestDetectAnomalies_CreditsNeverHighValue(t *testing.T) {
	var txs []domain.Transaction
	for i, day := range weekdays(20) {
		txs = append(txs, debit(fmt.Sprintf("t%d", i), day, 10, "groceries", ""))
	}
	txs = append(txs, credit("salary", 1, 5000))

	assert.Empty(t, anomaliesOfType(DetectAnomalies(txs), AnomalyHighValue))
}

func TestDetectAnomalies_FirstOccurrenceAndWeekend(t *testing.T) {
	txs := []domain.Transaction{
		debit("a", 0, 20, "groceries", ""),
		debit("b", 1, 25, "groceries", ""),
		debit("c", 2, 80, "concert", ""),
		debit("d", 5, 30, "groceries", ""), // Saturday
	}

	anomalies := DetectAnomalies(txs)

	first := anomaliesOfType(anomalies, AnomalyFirstOccurrence)
	require.Len(t, first, 1)
	assert.Equal(t, "c", first[0].TransactionID)

	weekend := anomaliesOfType(anomalies, AnomalyWeekend)
	require.Len(t, weekend, 1)
	assert.Equal(t, "d", weekend[0].TransactionID)
}

func TestDetectAnomalies_RapidSuccessionAdjacentOnly(t *testing.T) {
	base := monday
	txs := []domain.Transaction{
		{ID: "x", Date: base, Amount: 10, Category: "dining", Type: domain.TransactionDebit},
		{ID: "y", Date: base.Add(3 * time.Minute), Amount: 10, Category: "dining", Type: domain.TransactionDebit},
		{ID: "z", Date: base.Add(20 * time.Minute), Amount: 10, Category: "dining", Type: domain.TransactionDebit},
	}

	rapid := anomaliesOfType(DetectAnomalies(txs), AnomalyRapidSuccession)
	require.Len(t, rapid, 1)
	assert.Equal(t, "y", rapid[0].TransactionID)
	assert.Equal(t, AnomalyMedium, rapid[0].Severity)
}

func TestDetectAnomalies_CappedAtTwenty(t *testing.T) {
	var txs []domain.Transaction
	for i := 0; i < 30; i++ {
		// every transaction is a weekend debit in its own category
		txs = append(txs, debit(fmt.Sprintf("w%d", i), 5+7*i, 10, fmt.Sprintf("cat%d", i), ""))
	}
	assert.Len(t, DetectAnomalies(txs), 20)
}

func TestDetectAnomalies_Empty(t *testing.T) {
	assert.Empty(t, DetectAnomalies(nil))
}
