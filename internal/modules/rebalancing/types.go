package rebalancing

import (
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
)

// Status is the lifecycle state of a rebalance execution
type Status string

const (
	StatusPending   Status = "pending"
	StatusExecuting Status = "executing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// TradeAction is the side of a trade
type TradeAction string

const (
	ActionSell TradeAction = "sell"
	ActionBuy  TradeAction = "buy"
)

// Thresholds configure triggers and governance checks
type Thresholds struct {
	Drift                   float64 `json:"drift"`
	Volatility              float64 `json:"volatility"`
	MaxMonthsSinceRebalance float64 `json:"max_months_since_rebalance"`
	MaxTradePercent         float64 `json:"max_trade_percent"`
	MaxPostTradeDrift       float64 `json:"max_post_trade_drift"`
	MinAssetValue           float64 `json:"min_asset_value"`
}

// DefaultThresholds returns the standard trigger and governance limits
func DefaultThresholds() Thresholds {
	return Thresholds{
		Drift:                   5,
		Volatility:              25,
		MaxMonthsSinceRebalance: 6,
		MaxTradePercent:         20,
		MaxPostTradeDrift:       2,
		MinAssetValue:           100,
	}
}

// Snapshot is the portfolio state a rebalance decision is made on
type Snapshot struct {
	AsOf          time.Time          `json:"as_of"`
	LastRebalance time.Time          `json:"last_rebalance,omitempty"`
	Profile       domain.RiskProfile `json:"profile,omitempty"`
	Assets        []domain.Asset     `json:"assets"`
	Target        domain.Allocation  `json:"target"`
}

// TargetOrDefault returns the snapshot target, or 70/30 when none is set
func (s Snapshot) TargetOrDefault() domain.Allocation {
	if s.Target.Traditional+s.Target.Longevity == 0 {
		return domain.DefaultTargetAllocation
	}
	return s.Target
}

// Validate checks the holdings, the optional target and the optional profile
func (s Snapshot) Validate() error {
	if err := domain.ValidateAssets(s.Assets); err != nil {
		return err
	}
	if s.Target != (domain.Allocation{}) {
		if err := s.Target.Validate(); err != nil {
			return err
		}
	}
	if s.Profile != "" {
		if _, err := domain.ParseRiskProfile(string(s.Profile)); err != nil {
			return err
		}
	}
	return nil
}

// TotalValue sums the value of every asset
func (s Snapshot) TotalValue() float64 {
	var total float64
	for _, a := range s.Assets {
		total += a.Value()
	}
	return total
}

// Drift is the absolute deviation from target per class
type Drift struct {
	Traditional float64 `json:"traditional"`
	Longevity   float64 `json:"longevity"`
}

// Max returns the larger class drift
func (d Drift) Max() float64 {
	if d.Traditional > d.Longevity {
		return d.Traditional
	}
	return d.Longevity
}

// TriggerResult is the outcome of a single trigger check
type TriggerResult struct {
	ShouldRebalance bool   `json:"should_rebalance"`
	Reason          string `json:"reason"`
}

// Assessment is the result of evaluating whether to rebalance
type Assessment struct {
	CurrentAllocation    domain.Allocation `json:"current_allocation"`
	TargetAllocation     domain.Allocation `json:"target_allocation"`
	Drift                Drift             `json:"drift"`
	Reason               string            `json:"reason"`
	Triggers             []string          `json:"triggers"`
	Volatility           float64           `json:"volatility"`
	MonthsSinceRebalance float64           `json:"months_since_rebalance"`
	ShouldRebalance      bool              `json:"should_rebalance"`
}

// Trade moves value out of or into an asset class
type Trade struct {
	Action TradeAction       `json:"action"`
	Class  domain.AssetClass `json:"class"`
	Reason string            `json:"reason"`
	Amount float64           `json:"amount"`
}

// RiskCheck is a pre-execution guardrail result
type RiskCheck struct {
	Name    string  `json:"name"`
	Message string  `json:"message"`
	Value   float64 `json:"value"`
	Limit   float64 `json:"limit"`
	Passed  bool    `json:"passed"`
}

// RebalanceExecution records one pass through the rebalance pipeline
type RebalanceExecution struct {
	CreatedAt     time.Time         `json:"created_at" msgpack:"created_at"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty" msgpack:"completed_at"`
	ID            string            `json:"id" msgpack:"id"`
	Status        Status            `json:"status" msgpack:"status"`
	Reason        string            `json:"reason" msgpack:"reason"`
	Error         string            `json:"error,omitempty" msgpack:"error"`
	Trades        []Trade           `json:"trades" msgpack:"trades"`
	RiskChecks    []RiskCheck       `json:"risk_checks" msgpack:"risk_checks"`
	OldAllocation domain.Allocation `json:"old_allocation" msgpack:"old_allocation"`
	NewAllocation domain.Allocation `json:"new_allocation" msgpack:"new_allocation"`
	Approved      bool              `json:"approved" msgpack:"approved"`
	NoOp          bool              `json:"no_op" msgpack:"no_op"`
}
