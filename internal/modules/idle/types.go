package idle

import (
	"github.com/aristath/ledgerwise/internal/domain"
)

// Severity grades how much money is sitting idle in an account
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Recommendation is one slice of a profile's suggested allocation for idle funds
type Recommendation struct {
	AssetType            string  `json:"asset_type"`
	Rationale            string  `json:"rationale"`
	PercentageAllocation float64 `json:"percentage_allocation"`
	ExpectedAPY          float64 `json:"expected_apy"`
}

// AccountAnalysis is the idle capital assessment of a single account
type AccountAnalysis struct {
	AccountID            string             `json:"account_id"`
	AccountType          domain.AccountType `json:"account_type"`
	Severity             Severity           `json:"severity"`
	Recommendations      []Recommendation   `json:"recommendations"`
	Balance              float64            `json:"balance"`
	IdleRatio            float64            `json:"idle_ratio"`
	IdleAmount           float64            `json:"idle_amount"`
	EstimatedAnnualYield float64            `json:"estimated_annual_yield"`
	InactivityDays       int                `json:"inactivity_days"`
}

// PortfolioAnalysis aggregates account analyses
type PortfolioAnalysis struct {
	AverageAllocation    map[string]float64 `json:"average_allocation"`
	Profile              domain.RiskProfile `json:"profile"`
	Accounts             []AccountAnalysis  `json:"accounts"`
	HighPriority         []AccountAnalysis  `json:"high_priority"`
	TotalBalance         float64            `json:"total_balance"`
	TotalIdle            float64            `json:"total_idle"`
	IdlePercentage       float64            `json:"idle_percentage"`
	EstimatedAnnualYield float64            `json:"estimated_annual_yield"`
}

// PlannedAllocation is a recommendation resolved to a dollar amount
type PlannedAllocation struct {
	AssetType   string  `json:"asset_type"`
	Formatted   string  `json:"formatted_amount"`
	Percentage  float64 `json:"percentage"`
	Amount      float64 `json:"amount"`
	ExpectedAPY float64 `json:"expected_apy"`
}

// AllocationPlan turns idle funds into concrete action items
type AllocationPlan struct {
	Profile              domain.RiskProfile  `json:"profile"`
	Allocations          []PlannedAllocation `json:"allocations"`
	ActionItems          []string            `json:"action_items"`
	IdleAmount           float64             `json:"idle_amount"`
	EstimatedAnnualYield float64             `json:"estimated_annual_yield"`
}
