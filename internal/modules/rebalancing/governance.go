package rebalancing

import (
	"fmt"
	"time"

	"github.com/aristath/ledgerwise/pkg/formulas"
)

// Risk check names
const (
	CheckVolatility     = "volatility"
	CheckTradeSize      = "trade_size"
	CheckPostTradeDrift = "post_trade_drift"
	CheckMarketHours    = "market_hours"
	CheckMinAssetValue  = "minimum_asset_value"
)

// MarketClock reports whether trades may execute at an instant
type MarketClock interface {
	IsMarketOpen(t time.Time) bool
}

// PerformRiskGovernanceChecks runs the five pre-execution guardrails
func PerformRiskGovernanceChecks(snapshot Snapshot, trades []Trade, at time.Time, hours MarketClock, th Thresholds) []RiskCheck {
	total := snapshot.TotalValue()

	volatility := CalculatePortfolioVolatility(snapshot.Assets)
	checks := []RiskCheck{{
		Name:    CheckVolatility,
		Passed:  volatility <= th.Volatility,
		Value:   volatility,
		Limit:   th.Volatility,
		Message: fmt.Sprintf("portfolio volatility %.2f%% (limit %.2f%%)", volatility, th.Volatility),
	}}

	var largest float64
	for _, t := range trades {
		if pct := formulas.Percentage(t.Amount, total); pct > largest {
			largest = pct
		}
	}
	checks = append(checks, RiskCheck{
		Name:    CheckTradeSize,
		Passed:  largest <= th.MaxTradePercent,
		Value:   formulas.Round(largest, 2),
		Limit:   th.MaxTradePercent,
		Message: fmt.Sprintf("largest trade is %.2f%% of portfolio (limit %.2f%%)", largest, th.MaxTradePercent),
	})

	projected := ProjectAllocation(snapshot.Assets, trades)
	postDrift := CalculateDrift(projected, snapshot.TargetOrDefault()).Max()
	checks = append(checks, RiskCheck{
		Name:    CheckPostTradeDrift,
		Passed:  postDrift < th.MaxPostTradeDrift,
		Value:   formulas.Round(postDrift, 4),
		Limit:   th.MaxPostTradeDrift,
		Message: fmt.Sprintf("projected drift after trades %.2f%% (must be below %.2f%%)", postDrift, th.MaxPostTradeDrift),
	})

	open := hours != nil && hours.IsMarketOpen(at)
	marketMsg := "market is open"
	if !open {
		marketMsg = fmt.Sprintf("market is closed at %s", at.Format(time.RFC3339))
	}
	checks = append(checks, RiskCheck{
		Name:    CheckMarketHours,
		Passed:  open,
		Message: marketMsg,
	})

	values := ProjectAssetValues(snapshot.Assets, trades)
	minValue, minID := 0.0, ""
	for i, a := range snapshot.Assets {
		if a.Value() <= 0 {
			continue
		}
		if minID == "" || values[i] < minValue {
			minValue, minID = values[i], a.ID
		}
	}
	minMsg := "no funded assets"
	if minID != "" {
		minMsg = fmt.Sprintf("smallest post-trade position %s at %.2f (minimum %.2f)", minID, minValue, th.MinAssetValue)
	}
	checks = append(checks, RiskCheck{
		Name:    CheckMinAssetValue,
		Passed:  minID == "" || minValue >= th.MinAssetValue,
		Value:   formulas.Round(minValue, 2),
		Limit:   th.MinAssetValue,
		Message: minMsg,
	})

	return checks
}

// AllPassed reports whether every check passed
func AllPassed(checks []RiskCheck) bool {
	for _, c := range checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

func failedNames(checks []RiskCheck) []string {
	var names []string
	for _, c := range checks {
		if !c.Passed {
			names = append(names, c.Name)
		}
	}
	return names
}
