// Package risk blends spending behaviour, idle capital and declared preference
// into a single 0-100 risk score.
package risk

import (
	"context"
	"math"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/narrative"
	"github.com/aristath/ledgerwise/pkg/formulas"
	"github.com/rs/zerolog"
)

// DefaultVolatilityThreshold is the spending volatility (CV %) considered normal
const DefaultVolatilityThreshold = 25.0

// Composite weights
const (
	weightVolatility = 0.35
	weightIdle       = 0.25
	weightIncome     = 0.25
	weightPreference = 0.15

	idleFloor = 30.0
)

var preferenceBase = map[domain.RiskProfile]float64{
	domain.ProfileConservative: 20,
	domain.ProfileModerate:     50,
	domain.ProfileAggressive:   80,
}

// CompositeScore blends the components with the declared preference.
// The result is rounded and clamped to [0, 100].
func CompositeScore(c Components, preference domain.RiskProfile) int {
	base, ok := preferenceBase[preference]
	if !ok {
		base = preferenceBase[domain.ProfileModerate]
	}
	raw := weightVolatility*math.Min(c.SpendingVolatility, 100) +
		weightIdle*math.Max(0, c.IdleCapitalRatio-idleFloor) +
		weightIncome*(100-c.IncomeStability) +
		weightPreference*base
	return int(formulas.Clamp(math.Round(raw), 0, 100))
}

// ProfileForScore maps a score onto a risk profile
func ProfileForScore(score int) domain.RiskProfile {
	switch {
	case score < 40:
		return domain.ProfileConservative
	case score < 65:
		return domain.ProfileModerate
	default:
		return domain.ProfileAggressive
	}
}

// ClassifyVolatility grades volatility against threshold (elevated >1×, warning >1.5×, breach >2×)
func ClassifyVolatility(volatility, threshold float64) VolatilityStatus {
	switch {
	case volatility > threshold*2:
		return VolatilityBreach
	case volatility > threshold*1.5:
		return VolatilityWarning
	case volatility > threshold:
		return VolatilityElevated
	default:
		return VolatilityNormal
	}
}

// TrendLabel is the coarse direction passed to the narrative collaborator
func TrendLabel(volatility float64) string {
	if volatility > 35 {
		return "increasing"
	}
	return "stable"
}

// Scorer computes risk scores and attaches a narrative explanation
type Scorer struct {
	narrative           *narrative.Service
	volatilityThreshold float64
	log                 zerolog.Logger
}

// NewScorer creates a risk scorer. A non-positive threshold uses the default of 25.
func NewScorer(narrativeService *narrative.Service, volatilityThreshold float64, log zerolog.Logger) *Scorer {
	if volatilityThreshold <= 0 {
		volatilityThreshold = DefaultVolatilityThreshold
	}
	return &Scorer{
		narrative:           narrativeService,
		volatilityThreshold: volatilityThreshold,
		log:                 log.With().Str("component", "risk_scorer").Logger(),
	}
}

// Score computes the deterministic part of the assessment without a narrative
func (s *Scorer) Score(in Input) *RiskScoreResult {
	window := trailingYear(in.Transactions, in.AsOf)
	components := CalculateComponents(window, in.TotalCapital, in.AsOf)
	score := CompositeScore(components, in.Preference)
	status := ClassifyVolatility(components.SpendingVolatility, s.volatilityThreshold)

	return &RiskScoreResult{
		CalculatedAt:     in.AsOf,
		Profile:          ProfileForScore(score),
		VolatilityStatus: status,
		TrendLabel:       TrendLabel(components.SpendingVolatility),
		Components:       components,
		Score:            score,
		RebalanceRecommended: status != VolatilityNormal ||
			components.IdleCapitalRatio > 40 ||
			components.SpendingVolatility > 30,
	}
}

// ScoreUserRisk scores the user and awaits the narrative collaborator. The
// collaborator cannot fail the call; only cancellation of ctx is returned.
func (s *Scorer) ScoreUserRisk(ctx context.Context, in Input) (*RiskScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := s.Score(in)

	outcome := narrative.Outcome{Source: narrative.SourceFallback}
	req := narrative.Request{
		Score:      result.Score,
		Profile:    result.Profile,
		Volatility: formulas.Round(result.Components.SpendingVolatility, 1),
		Trend:      result.TrendLabel,
	}
	if s.narrative != nil {
		outcome = s.narrative.Explain(ctx, req)
	} else {
		outcome.Text = narrative.Template(req)
	}
	result.Explanation = outcome.Text
	result.ExplanationSource = outcome.Source

	s.log.Info().
		Int("score", result.Score).
		Str("profile", string(result.Profile)).
		Str("volatility_status", string(result.VolatilityStatus)).
		Bool("rebalance_recommended", result.RebalanceRecommended).
		Str("explanation_source", string(outcome.Source)).
		Msg("User risk scored")

	return result, nil
}

func trailingYear(txs []domain.Transaction, asOf time.Time) []domain.Transaction {
	cutoff := asOf.AddDate(-1, 0, 0)
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Date.Before(cutoff) || tx.Date.After(asOf) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
