// Package idle estimates how much of a user's cash is sitting dormant and
// proposes where to put it.
package idle

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/pkg/formulas"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MaxParallelAccounts bounds the portfolio fan-out
const MaxParallelAccounts = 8

var typeMultiplier = map[domain.AccountType]float64{
	domain.AccountSavings:    0.7,
	domain.AccountInvestment: 1.2,
}

// Detector analyses account dormancy
type Detector struct {
	clock domain.Clock
	log   zerolog.Logger
}

// NewDetector creates an idle capital detector. A nil clock uses the system clock.
func NewDetector(clock domain.Clock, log zerolog.Logger) *Detector {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Detector{
		clock: clock,
		log:   log.With().Str("component", "idle_detector").Logger(),
	}
}

// BaseIdleRatio maps days of inactivity onto an idle percentage before the
// account type multiplier is applied.
func BaseIdleRatio(inactivityDays int) float64 {
	days := float64(inactivityDays)
	switch {
	case inactivityDays < 7:
		return 0
	case inactivityDays < 30:
		return math.Min(50, days*3)
	case inactivityDays < 90:
		return math.Min(75, 50+(days-30)*0.8)
	default:
		return 100
	}
}

// IdleRatio applies the account type multiplier to BaseIdleRatio, clamped to [0, 100]
func IdleRatio(inactivityDays int, accountType domain.AccountType) float64 {
	ratio := BaseIdleRatio(inactivityDays)
	if m, ok := typeMultiplier[accountType]; ok {
		ratio *= m
	}
	return formulas.Clamp(ratio, 0, 100)
}

// SeverityFor grades an idle amount
func SeverityFor(idleAmount float64) Severity {
	switch {
	case idleAmount < 1000:
		return SeverityLow
	case idleAmount < 5000:
		return SeverityMedium
	case idleAmount < 20000:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// AnalyzeAccountIdleCapital scores one account's dormancy
func (d *Detector) AnalyzeAccountIdleCapital(account domain.Account, profile domain.RiskProfile) *AccountAnalysis {
	days := inactivityDays(account, d.clock)
	ratio := IdleRatio(days, account.Type)

	var idleAmount float64
	if account.Balance > 0 {
		idleAmount = account.Balance * ratio / 100
	}
	recs := RecommendationsFor(profile)

	return &AccountAnalysis{
		AccountID:            account.ID,
		AccountType:          account.Type,
		Severity:             SeverityFor(idleAmount),
		Recommendations:      recs,
		Balance:              account.Balance,
		IdleRatio:            formulas.Round(ratio, 2),
		IdleAmount:           formulas.Round(idleAmount, 2),
		EstimatedAnnualYield: formulas.Round(EstimatedYield(idleAmount, recs), 2),
		InactivityDays:       days,
	}
}

// AnalyzePortfolioIdleCapital analyses every account concurrently and
// reduces the results. Only cancellation of ctx is returned as an error.
func (d *Detector) AnalyzePortfolioIdleCapital(ctx context.Context, accounts []domain.Account, profile domain.RiskProfile) (*PortfolioAnalysis, error) {
	results := make([]AccountAnalysis, len(accounts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxParallelAccounts)
	for i := range accounts {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = *d.AnalyzeAccountIdleCapital(accounts[i], profile)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("portfolio idle analysis: %w", err)
	}

	analysis := aggregate(results, profile)
	d.log.Debug().
		Int("accounts", len(accounts)).
		Float64("total_idle", analysis.TotalIdle).
		Int("high_priority", len(analysis.HighPriority)).
		Msg("Portfolio idle capital analysed")
	return analysis, nil
}

func aggregate(results []AccountAnalysis, profile domain.RiskProfile) *PortfolioAnalysis {
	analysis := &PortfolioAnalysis{
		AverageAllocation: make(map[string]float64),
		Profile:           profile,
		Accounts:          results,
		HighPriority:      []AccountAnalysis{},
	}

	for _, r := range results {
		if r.Balance > 0 {
			analysis.TotalBalance += r.Balance
		}
		analysis.TotalIdle += r.IdleAmount
		analysis.EstimatedAnnualYield += r.EstimatedAnnualYield
		for _, rec := range r.Recommendations {
			analysis.AverageAllocation[rec.AssetType] += rec.PercentageAllocation
		}
		if r.Severity == SeverityHigh || r.Severity == SeverityCritical {
			analysis.HighPriority = append(analysis.HighPriority, r)
		}
	}

	if n := float64(len(results)); n > 0 {
		for assetType, sum := range analysis.AverageAllocation {
			analysis.AverageAllocation[assetType] = formulas.Round(sum/n, 2)
		}
	}
	analysis.IdlePercentage = formulas.Round(formulas.Percentage(analysis.TotalIdle, analysis.TotalBalance), 2)
	analysis.TotalIdle = formulas.Round(analysis.TotalIdle, 2)
	analysis.EstimatedAnnualYield = formulas.Round(analysis.EstimatedAnnualYield, 2)

	sort.SliceStable(analysis.HighPriority, func(i, j int) bool {
		return analysis.HighPriority[i].IdleAmount > analysis.HighPriority[j].IdleAmount
	})
	return analysis
}

func inactivityDays(account domain.Account, clock domain.Clock) int {
	if account.LastActivityDate.IsZero() {
		return math.MaxInt32
	}
	days := int(clock.Now().Sub(account.LastActivityDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
