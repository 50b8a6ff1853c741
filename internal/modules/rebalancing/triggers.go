package rebalancing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aristath/ledgerwise/pkg/formulas"
	"github.com/rs/zerolog"
)

const daysPerMonth = 30.0

// TriggerChecker decides whether a portfolio warrants rebalancing
type TriggerChecker struct {
	thresholds Thresholds
	log        zerolog.Logger
}

// NewTriggerChecker creates a new trigger checker
func NewTriggerChecker(thresholds Thresholds, log zerolog.Logger) *TriggerChecker {
	return &TriggerChecker{
		thresholds: thresholds,
		log:        log.With().Str("component", "rebalancing_triggers").Logger(),
	}
}

// AssessRebalanceNeed evaluates drift, volatility and staleness triggers.
// The result depends only on the snapshot.
func (tc *TriggerChecker) AssessRebalanceNeed(snapshot Snapshot) *Assessment {
	current := CalculateCurrentAllocation(snapshot.Assets)
	target := snapshot.TargetOrDefault()
	drift := CalculateDrift(current, target)
	volatility := CalculatePortfolioVolatility(snapshot.Assets)
	months := MonthsSince(snapshot.LastRebalance, snapshot.AsOf)

	assessment := &Assessment{
		CurrentAllocation:    current,
		TargetAllocation:     target,
		Drift:                drift,
		Triggers:             []string{},
		Volatility:           volatility,
		MonthsSinceRebalance: months,
	}

	if snapshot.TotalValue() <= 0 {
		assessment.Reason = "no rebalance: portfolio has no value"
		return assessment
	}

	results := []*TriggerResult{
		tc.checkDrift(drift),
		tc.checkVolatility(volatility),
		tc.checkStaleness(months, snapshot.LastRebalance.IsZero()),
	}
	for _, r := range results {
		if r.ShouldRebalance {
			assessment.ShouldRebalance = true
			assessment.Triggers = append(assessment.Triggers, r.Reason)
		}
	}

	if assessment.ShouldRebalance {
		assessment.Reason = strings.Join(assessment.Triggers, "; ")
		tc.log.Info().
			Float64("drift", drift.Max()).
			Float64("volatility", volatility).
			Float64("months_since_rebalance", months).
			Str("reason", assessment.Reason).
			Msg("Rebalance triggered")
	} else {
		assessment.Reason = fmt.Sprintf(
			"no rebalance: drift %.2f%% within %.2f%%, volatility %.2f%% within %.2f%%, last rebalance %.1f months ago",
			drift.Max(), tc.thresholds.Drift, volatility, tc.thresholds.Volatility, months,
		)
	}
	return assessment
}

func (tc *TriggerChecker) checkDrift(drift Drift) *TriggerResult {
	if drift.Max() > tc.thresholds.Drift {
		return &TriggerResult{
			ShouldRebalance: true,
			Reason:          fmt.Sprintf("allocation drift %.2f%% exceeds %.2f%%", drift.Max(), tc.thresholds.Drift),
		}
	}
	return &TriggerResult{Reason: "drift within threshold"}
}

func (tc *TriggerChecker) checkVolatility(volatility float64) *TriggerResult {
	if volatility > tc.thresholds.Volatility {
		return &TriggerResult{
			ShouldRebalance: true,
			Reason:          fmt.Sprintf("portfolio volatility %.2f%% exceeds %.2f%%", volatility, tc.thresholds.Volatility),
		}
	}
	return &TriggerResult{Reason: "volatility within threshold"}
}

func (tc *TriggerChecker) checkStaleness(months float64, never bool) *TriggerResult {
	if never {
		return &TriggerResult{ShouldRebalance: true, Reason: "portfolio has never been rebalanced"}
	}
	if months > tc.thresholds.MaxMonthsSinceRebalance {
		return &TriggerResult{
			ShouldRebalance: true,
			Reason:          fmt.Sprintf("%.1f months since last rebalance exceeds %.0f", months, tc.thresholds.MaxMonthsSinceRebalance),
		}
	}
	return &TriggerResult{Reason: "rebalanced recently"}
}

// MonthsSince counts 30-day months between last and asOf. A zero last time
// yields 0; callers treat it as never rebalanced.
func MonthsSince(last, asOf time.Time) float64 {
	if last.IsZero() {
		return 0
	}
	days := asOf.Sub(last).Hours() / 24
	return formulas.Round(math.Max(0, days/daysPerMonth), 2)
}
