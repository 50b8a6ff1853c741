// Package compliance audits a portfolio snapshot against a fixed policy.
// Failures are reported as data, never as errors.
package compliance

import (
	"fmt"
	"math"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/rebalancing"
	"github.com/aristath/ledgerwise/pkg/formulas"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	maxDaysSinceRebalance     = 180
	reviewDaysSinceRebalance  = 150
	suitabilityVolatilityCeil = 30.0
)

// Gate produces compliance reports
type Gate struct {
	policy Policy
	log    zerolog.Logger
}

// NewGate creates a compliance gate
func NewGate(policy Policy, log zerolog.Logger) *Gate {
	return &Gate{
		policy: policy,
		log:    log.With().Str("component", "compliance_gate").Logger(),
	}
}

// Policy returns the active policy
func (g *Gate) Policy() Policy {
	return g.policy
}

// CheckCompliance runs the four policy checks. The report is compliant only
// when every check passes.
func (g *Gate) CheckCompliance(snapshot Snapshot, at time.Time) *ComplianceReport {
	report := &ComplianceReport{
		Timestamp:       at,
		ID:              uuid.New().String(),
		Profile:         snapshot.Profile,
		Violations:      []Violation{},
		Recommendations: []string{},
		PortfolioValue:  snapshot.PortfolioValue,
	}

	report.add(g.checkDrift(snapshot))
	report.add(g.checkVolatility(snapshot))
	report.add(g.checkRebalanceFrequency(snapshot, at))
	report.add(g.checkSuitability(snapshot))

	report.OverallCompliant = true
	for _, c := range report.Checks {
		report.OverallCompliant = report.OverallCompliant && c.Passed
	}

	g.log.Info().
		Str("report_id", report.ID).
		Bool("compliant", report.OverallCompliant).
		Int("violations", len(report.Violations)).
		Msg("Compliance checked")
	return report
}

type outcome struct {
	check          Check
	violation      *Violation
	recommendation string
}

func (r *ComplianceReport) add(o outcome) {
	r.Checks = append(r.Checks, o.check)
	if o.violation != nil {
		r.Violations = append(r.Violations, *o.violation)
	}
	if o.recommendation != "" {
		r.Recommendations = append(r.Recommendations, o.recommendation)
	}
}

func (g *Gate) checkDrift(s Snapshot) outcome {
	target := s.Target
	if target.Traditional+target.Longevity == 0 {
		target = domain.DefaultTargetAllocation
	}
	drift := rebalancing.CalculateDrift(s.Allocation, target).Max()
	limit := g.policy.MaxAllocationDrift

	o := outcome{check: Check{
		Name:    CheckAllocationDrift,
		Passed:  drift <= limit,
		Value:   formulas.Round(drift, 2),
		Limit:   limit,
		Message: fmt.Sprintf("allocation drift %.2f%% (limit %.2f%%)", drift, limit),
	}}
	if !o.check.Passed {
		severity := domain.SeverityWarning
		if drift > limit*2 {
			severity = domain.SeverityCritical
		}
		o.violation = &Violation{
			Check:    CheckAllocationDrift,
			Severity: severity,
			Message:  o.check.Message,
			Remediation: fmt.Sprintf("Rebalance toward the %.0f/%.0f traditional/longevity target",
				target.Traditional, target.Longevity),
		}
	} else if drift > limit*0.5 {
		o.recommendation = fmt.Sprintf("Allocation drift of %.2f%% is approaching the %.2f%% limit; plan a rebalance", drift, limit)
	}
	return o
}

func (g *Gate) checkVolatility(s Snapshot) outcome {
	limit := g.policy.MaxPortfolioVolatility
	o := outcome{check: Check{
		Name:    CheckVolatilityCeiling,
		Passed:  s.Volatility <= limit,
		Value:   s.Volatility,
		Limit:   limit,
		Message: fmt.Sprintf("portfolio volatility %.2f%% (ceiling %.2f%%)", s.Volatility, limit),
	}}
	if !o.check.Passed {
		o.violation = &Violation{
			Check:       CheckVolatilityCeiling,
			Severity:    domain.SeverityCritical,
			Message:     o.check.Message,
			Remediation: "Shift value from staking and yield positions into bonds or insurance-linked assets",
		}
	} else if s.Volatility > limit*0.8 {
		o.recommendation = fmt.Sprintf("Volatility of %.2f%% is above 80%% of the %.2f%% ceiling", s.Volatility, limit)
	}
	return o
}

func (g *Gate) checkRebalanceFrequency(s Snapshot, at time.Time) outcome {
	if s.LastRebalance.IsZero() {
		return outcome{
			check: Check{
				Name:    CheckRebalanceFrequency,
				Limit:   maxDaysSinceRebalance,
				Message: "no rebalance on record",
			},
			violation: &Violation{
				Check:       CheckRebalanceFrequency,
				Severity:    domain.SeverityWarning,
				Message:     "no rebalance on record",
				Remediation: "Run an initial rebalance to establish the target allocation",
			},
		}
	}

	days := math.Floor(at.Sub(s.LastRebalance).Hours() / 24)
	o := outcome{check: Check{
		Name:    CheckRebalanceFrequency,
		Passed:  days <= maxDaysSinceRebalance,
		Value:   days,
		Limit:   maxDaysSinceRebalance,
		Message: fmt.Sprintf("%.0f days since last rebalance (limit %d)", days, maxDaysSinceRebalance),
	}}

	minDays := g.policy.MinRebalanceInterval.Hours() / 24
	switch {
	case !o.check.Passed:
		o.violation = &Violation{
			Check:       CheckRebalanceFrequency,
			Severity:    domain.SeverityWarning,
			Message:     o.check.Message,
			Remediation: "Review the portfolio and rebalance at least every six months",
		}
	case days > reviewDaysSinceRebalance:
		o.recommendation = fmt.Sprintf("Last rebalance was %.0f days ago; schedule a review before day %d", days, maxDaysSinceRebalance)
	case days < minDays:
		o.recommendation = fmt.Sprintf("Rebalanced %.0f days ago, inside the %.0f-day minimum interval; avoid further trades until it elapses", days, minDays)
	}
	return o
}

func (g *Gate) checkSuitability(s Snapshot) outcome {
	check := Check{
		Name:   CheckSuitability,
		Passed: true,
		Value:  s.Volatility,
		Limit:  suitabilityVolatilityCeil,
	}
	if !g.policy.SuitabilityCheck {
		check.Message = "suitability check disabled"
		return outcome{check: check}
	}
	if s.Profile == domain.ProfileAggressive || s.Volatility <= suitabilityVolatilityCeil {
		check.Message = fmt.Sprintf("volatility %.2f%% suits a %s profile", s.Volatility, s.Profile)
		return outcome{check: check}
	}

	check.Passed = false
	check.Message = fmt.Sprintf("volatility %.2f%% is unsuitable for a %s profile", s.Volatility, s.Profile)
	severity := domain.SeverityWarning
	if s.Profile == domain.ProfileConservative {
		severity = domain.SeverityCritical
	}
	return outcome{
		check: check,
		violation: &Violation{
			Check:       CheckSuitability,
			Severity:    severity,
			Message:     check.Message,
			Remediation: "Reduce exposure to high-volatility assets or revisit the declared risk profile",
		},
	}
}

// ValidateTrades flags every trade above the single-trade-size ceiling
func (g *Gate) ValidateTrades(trades []rebalancing.Trade, portfolioValue float64) []Violation {
	violations := []Violation{}
	for _, t := range trades {
		pct := formulas.Percentage(t.Amount, portfolioValue)
		if portfolioValue <= 0 && t.Amount > 0 {
			pct = 100
		}
		if pct <= g.policy.MaxSingleTradeSize {
			continue
		}
		violations = append(violations, Violation{
			Check:       CheckSingleTradeSize,
			Severity:    domain.SeverityCritical,
			Message:     fmt.Sprintf("%s %s of %.2f is %.2f%% of the portfolio (limit %.2f%%)", t.Action, t.Class, t.Amount, pct, g.policy.MaxSingleTradeSize),
			Remediation: "Split the trade across several rebalancing windows",
		})
	}
	return violations
}
