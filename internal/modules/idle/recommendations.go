package idle

import (
	"github.com/aristath/ledgerwise/internal/domain"
)

var recommendationTable = map[domain.RiskProfile][]Recommendation{
	domain.ProfileConservative: {
		{AssetType: "high_yield_savings", PercentageAllocation: 50, ExpectedAPY: 4.5, Rationale: "Instant access with no principal risk"},
		{AssetType: "treasury_bills", PercentageAllocation: 30, ExpectedAPY: 5.0, Rationale: "Government backed and short dated"},
		{AssetType: "bond_etf", PercentageAllocation: 20, ExpectedAPY: 4.0, Rationale: "Diversified fixed income with daily liquidity"},
	},
	domain.ProfileModerate: {
		{AssetType: "high_yield_savings", PercentageAllocation: 25, ExpectedAPY: 4.5, Rationale: "Keeps an emergency buffer liquid"},
		{AssetType: "bond_etf", PercentageAllocation: 30, ExpectedAPY: 4.0, Rationale: "Stable income to offset equity swings"},
		{AssetType: "index_fund", PercentageAllocation: 35, ExpectedAPY: 7.0, Rationale: "Broad market growth at low cost"},
		{AssetType: "staking", PercentageAllocation: 10, ExpectedAPY: 5.5, Rationale: "Small longevity sleeve for extra yield"},
	},
	domain.ProfileAggressive: {
		{AssetType: "index_fund", PercentageAllocation: 40, ExpectedAPY: 7.0, Rationale: "Core equity exposure"},
		{AssetType: "growth_stocks", PercentageAllocation: 30, ExpectedAPY: 9.0, Rationale: "Higher expected return for higher volatility"},
		{AssetType: "staking", PercentageAllocation: 20, ExpectedAPY: 6.0, Rationale: "Protocol rewards on long-held positions"},
		{AssetType: "yield_farming", PercentageAllocation: 10, ExpectedAPY: 8.0, Rationale: "Speculative yield, sized to tolerate loss"},
	},
}

// RecommendationsFor returns a copy of the fixed allocation table for a profile.
// Unknown profiles get the moderate table.
func RecommendationsFor(profile domain.RiskProfile) []Recommendation {
	recs, ok := recommendationTable[profile]
	if !ok {
		recs = recommendationTable[domain.ProfileModerate]
	}
	out := make([]Recommendation, len(recs))
	copy(out, recs)
	return out
}

// EstimatedYield is Σ idle × allocation% × APY%
func EstimatedYield(idleAmount float64, recs []Recommendation) float64 {
	var total float64
	for _, rec := range recs {
		total += idleAmount * rec.PercentageAllocation / 100 * rec.ExpectedAPY / 100
	}
	return total
}
