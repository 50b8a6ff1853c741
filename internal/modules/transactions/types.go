package transactions

import "time"

// AnomalyType names the heuristic that flagged a transaction
type AnomalyType string

const (
	AnomalyHighValue       AnomalyType = "high_value"
	AnomalyFirstOccurrence AnomalyType = "first_occurrence"
	AnomalyWeekend         AnomalyType = "weekend"
	AnomalyRapidSuccession AnomalyType = "rapid_succession"
)

// AnomalySeverity grades how unusual a flagged transaction is
type AnomalySeverity string

const (
	AnomalyLow    AnomalySeverity = "low"
	AnomalyMedium AnomalySeverity = "medium"
	AnomalyHigh   AnomalySeverity = "high"
)

// Anomaly is a transaction flagged by one of the detection heuristics
type Anomaly struct {
	Date          time.Time       `json:"date"`
	TransactionID string          `json:"transaction_id"`
	Type          AnomalyType     `json:"type"`
	Severity      AnomalySeverity `json:"severity"`
	Description   string          `json:"description"`
	Amount        float64         `json:"amount"`
}

// CategorySpending is one row of the category breakdown
type CategorySpending struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

// MerchantFrequency counts how often a merchant appears
type MerchantFrequency struct {
	Merchant string  `json:"merchant"`
	Count    int     `json:"count"`
	Total    float64 `json:"total"`
}

// DateRange is the span covered by an analysis
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Analysis is the aggregate view over a set of transactions
type Analysis struct {
	LargestTransaction *LargestTransaction `json:"largest_transaction,omitempty"`
	DateRange          DateRange           `json:"date_range"`
	SpendingByCategory []CategorySpending  `json:"spending_by_category"`
	TopMerchants       []MerchantFrequency `json:"top_merchants"`
	Anomalies          []Anomaly           `json:"anomalies"`
	TotalSpending      float64             `json:"total_spending"`
	TotalIncome        float64             `json:"total_income"`
	NetFlow            float64             `json:"net_flow"`
	AverageTransaction float64             `json:"average_transaction"`
	TransactionCount   int                 `json:"transaction_count"`
}

// LargestTransaction identifies the single biggest transaction
type LargestTransaction struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Merchant string  `json:"merchant,omitempty"`
}

// TrendDirection classifies the spending slope
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// Trend is the least-squares fit over monthly spending totals
type Trend struct {
	Direction     TrendDirection `json:"trend"`
	MonthlyTotals []MonthTotal   `json:"monthly_totals"`
	Slope         float64        `json:"slope"`
	Intercept     float64        `json:"intercept"`
	Projected     float64        `json:"projected_next_month"`
}

// MonthTotal is the sum of matching transactions in one calendar month
type MonthTotal struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
}

// Frequency is the cadence of a recurring charge
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyIrregular Frequency = "irregular"
)

// Recurring is a merchant charging the same amount repeatedly
type Recurring struct {
	LastDate     time.Time `json:"last_date"`
	NextExpected time.Time `json:"next_expected"`
	Merchant     string    `json:"merchant"`
	Category     string    `json:"category"`
	Frequency    Frequency `json:"frequency"`
	Amount       float64   `json:"amount"`
	AverageGap   float64   `json:"average_gap_days"`
	Count        int       `json:"count"`
}

// BudgetSuggestion proposes a spending cap per category
type BudgetSuggestion struct {
	Category        string  `json:"category"`
	CurrentSpending float64 `json:"current_spending"`
	SuggestedBudget float64 `json:"suggested_budget"`
}
