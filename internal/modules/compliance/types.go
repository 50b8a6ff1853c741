package compliance

import (
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
)

// Check names
const (
	CheckAllocationDrift    = "allocation_drift"
	CheckVolatilityCeiling  = "volatility_ceiling"
	CheckRebalanceFrequency = "rebalance_frequency"
	CheckSuitability        = "suitability"
	CheckSingleTradeSize    = "single_trade_size"
)

// Policy is the static rule set a portfolio is audited against
type Policy struct {
	MaxAllocationDrift     float64       `json:"max_allocation_drift"`
	MaxPortfolioVolatility float64       `json:"max_portfolio_volatility"`
	MinRebalanceInterval   time.Duration `json:"min_rebalance_interval"`
	MaxSingleTradeSize     float64       `json:"max_single_trade_size"`
	SuitabilityCheck       bool          `json:"suitability_check"`
}

// DefaultPolicy returns the standard policy
func DefaultPolicy() Policy {
	return Policy{
		MaxAllocationDrift:     5,
		MaxPortfolioVolatility: 25,
		MinRebalanceInterval:   7 * 24 * time.Hour,
		MaxSingleTradeSize:     20,
		SuitabilityCheck:       true,
	}
}

// Snapshot is the portfolio state under audit
type Snapshot struct {
	LastRebalance  time.Time          `json:"last_rebalance,omitempty"`
	Profile        domain.RiskProfile `json:"profile"`
	Allocation     domain.Allocation  `json:"allocation"`
	Target         domain.Allocation  `json:"target"`
	PortfolioValue float64            `json:"portfolio_value"`
	Volatility     float64            `json:"volatility"`
}

// Check is one policy rule outcome
type Check struct {
	Name    string  `json:"name" msgpack:"name"`
	Message string  `json:"message" msgpack:"message"`
	Value   float64 `json:"value" msgpack:"value"`
	Limit   float64 `json:"limit" msgpack:"limit"`
	Passed  bool    `json:"passed" msgpack:"passed"`
}

// Violation is a failed check with remediation guidance
type Violation struct {
	Check       string          `json:"check" msgpack:"check"`
	Severity    domain.Severity `json:"severity" msgpack:"severity"`
	Message     string          `json:"message" msgpack:"message"`
	Remediation string          `json:"remediation" msgpack:"remediation"`
}

// ComplianceReport is immutable once produced
type ComplianceReport struct {
	Timestamp        time.Time          `json:"timestamp" msgpack:"timestamp"`
	ID               string             `json:"id" msgpack:"id"`
	Profile          domain.RiskProfile `json:"profile" msgpack:"profile"`
	Checks           []Check            `json:"checks" msgpack:"checks"`
	Violations       []Violation        `json:"violations" msgpack:"violations"`
	Recommendations  []string           `json:"recommendations" msgpack:"recommendations"`
	PortfolioValue   float64            `json:"portfolio_value" msgpack:"portfolio_value"`
	OverallCompliant bool               `json:"overall_compliant" msgpack:"overall_compliant"`
}
