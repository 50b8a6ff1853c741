package narrative

import (
	"fmt"

	"github.com/aristath/ledgerwise/internal/domain"
)

var profileAdvice = map[domain.RiskProfile]string{
	domain.ProfileConservative: "Favour capital preservation and keep an emergency buffer in liquid savings.",
	domain.ProfileModerate:     "A balanced mix of growth and income assets suits this profile.",
	domain.ProfileAggressive:   "Growth assets fit this profile, but review position sizes regularly.",
}

// Template is the deterministic explanation used whenever generation is unavailable.
// The same request always yields the same text.
func Template(req Request) string {
	advice, ok := profileAdvice[req.Profile]
	if !ok {
		advice = "Review your allocation against your goals."
	}
	return fmt.Sprintf(
		"Your risk score is %d/100, which places you in the %s profile. Spending volatility is %.1f%% and %s. %s",
		req.Score, req.Profile, req.Volatility, trendPhrase(req.Trend), advice,
	)
}

func trendPhrase(trend string) string {
	if trend == "increasing" {
		return "is trending upward"
	}
	return "is holding steady"
}
