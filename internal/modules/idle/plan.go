package idle

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/pkg/formulas"
)

// PlanCurrency is the currency used to format action items
const PlanCurrency = money.USD

// NoActionItem is the single action item for a plan with nothing idle
const NoActionItem = "No action needed: you have no idle capital to allocate."

// GenerateAllocationPlan splits an idle amount across the profile's
// recommendation table.
func GenerateAllocationPlan(idleAmount float64, profile domain.RiskProfile) *AllocationPlan {
	plan := &AllocationPlan{
		Profile:     profile,
		Allocations: []PlannedAllocation{},
		IdleAmount:  formulas.Round(idleAmount, 2),
	}
	if idleAmount <= 0 {
		plan.ActionItems = []string{NoActionItem}
		return plan
	}

	recs := RecommendationsFor(profile)
	plan.ActionItems = make([]string, 0, len(recs)+1)
	for _, rec := range recs {
		amount := formulas.Round(idleAmount*rec.PercentageAllocation/100, 2)
		formatted := formatMoney(amount)
		plan.Allocations = append(plan.Allocations, PlannedAllocation{
			AssetType:   rec.AssetType,
			Formatted:   formatted,
			Percentage:  rec.PercentageAllocation,
			Amount:      amount,
			ExpectedAPY: rec.ExpectedAPY,
		})
		plan.ActionItems = append(plan.ActionItems, fmt.Sprintf(
			"Move %s (%.0f%%) into %s at ~%.1f%% APY: %s",
			formatted, rec.PercentageAllocation, rec.AssetType, rec.ExpectedAPY, rec.Rationale,
		))
	}

	plan.EstimatedAnnualYield = formulas.Round(EstimatedYield(idleAmount, recs), 2)
	plan.ActionItems = append(plan.ActionItems, fmt.Sprintf(
		"Expected additional income: %s per year", formatMoney(plan.EstimatedAnnualYield),
	))
	return plan
}

func formatMoney(amount float64) string {
	return money.NewFromFloat(amount, PlanCurrency).Display()
}
