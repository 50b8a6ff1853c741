package risk

import (
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/narrative"
)

// VolatilityStatus grades spending volatility against the configured threshold
type VolatilityStatus string

const (
	VolatilityNormal   VolatilityStatus = "normal"
	VolatilityElevated VolatilityStatus = "elevated"
	VolatilityWarning  VolatilityStatus = "warning"
	VolatilityBreach   VolatilityStatus = "breach"
)

// Components are the inputs blended into the composite score
type Components struct {
	MonthlySpending    float64 `json:"monthly_spending"`
	SpendingVolatility float64 `json:"spending_volatility"`
	IdleCapitalRatio   float64 `json:"idle_capital_ratio"`
	IdleCapitalAmount  float64 `json:"idle_capital_amount"`
	IncomeStability    float64 `json:"income_stability"`
	InactivityDays     int     `json:"inactivity_days"`
}

// Input is everything ScoreUserRisk needs. Transactions outside the trailing
// twelve months relative to AsOf are ignored.
type Input struct {
	AsOf         time.Time            `json:"as_of"`
	Preference   domain.RiskProfile   `json:"preference"`
	Transactions []domain.Transaction `json:"transactions"`
	TotalCapital float64              `json:"total_capital"`
}

// RiskScoreResult is the scored risk assessment
type RiskScoreResult struct {
	CalculatedAt         time.Time          `json:"calculated_at"`
	Profile              domain.RiskProfile `json:"profile"`
	VolatilityStatus     VolatilityStatus   `json:"volatility_status"`
	TrendLabel           string             `json:"trend"`
	Explanation          string             `json:"explanation"`
	ExplanationSource    narrative.Source   `json:"explanation_source"`
	Components           Components         `json:"components"`
	Score                int                `json:"score"`
	RebalanceRecommended bool               `json:"rebalance_recommended"`
}
