package rebalancing

import (
	"fmt"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/shopspring/decimal"
)

// GenerateRebalanceTrades sizes a symmetric sell/buy pair that moves the
// traditional class to its target value. Amounts are rounded to cents.
// A balanced or empty portfolio yields no trades.
func GenerateRebalanceTrades(snapshot Snapshot) []Trade {
	total := decimal.NewFromFloat(snapshot.TotalValue())
	if !total.IsPositive() {
		return []Trade{}
	}

	var traditional decimal.Decimal
	for _, a := range snapshot.Assets {
		if a.ResolvedClass() == domain.ClassTraditional {
			traditional = traditional.Add(decimal.NewFromFloat(a.Value()))
		}
	}

	targetPct := decimal.NewFromFloat(snapshot.TargetOrDefault().Traditional)
	targetValue := total.Mul(targetPct).Div(decimal.NewFromInt(100))
	shift := targetValue.Sub(traditional).Round(2)
	if shift.IsZero() {
		return []Trade{}
	}

	from, to := domain.ClassLongevity, domain.ClassTraditional
	if shift.IsNegative() {
		from, to = domain.ClassTraditional, domain.ClassLongevity
	}
	amount, _ := shift.Abs().Float64()
	reason := fmt.Sprintf("move %s from %s to %s to restore %s/%s target",
		shift.Abs().StringFixed(2), from, to,
		targetPct.String(), decimal.NewFromInt(100).Sub(targetPct).String())

	return []Trade{
		{Action: ActionSell, Class: from, Amount: amount, Reason: reason},
		{Action: ActionBuy, Class: to, Amount: amount, Reason: reason},
	}
}

// ProjectAssetValues applies class-level trades pro rata to the assets in each
// class. Assets in a class with no current value share buys equally.
func ProjectAssetValues(assets []domain.Asset, trades []Trade) []float64 {
	values := make([]float64, len(assets))
	classTotal := map[domain.AssetClass]float64{}
	classCount := map[domain.AssetClass]int{}
	for i, a := range assets {
		values[i] = a.Value()
		classTotal[a.ResolvedClass()] += values[i]
		classCount[a.ResolvedClass()]++
	}

	delta := map[domain.AssetClass]float64{}
	for _, t := range trades {
		switch t.Action {
		case ActionSell:
			delta[t.Class] -= t.Amount
		case ActionBuy:
			delta[t.Class] += t.Amount
		}
	}

	for i, a := range assets {
		class := a.ResolvedClass()
		d, ok := delta[class]
		if !ok {
			continue
		}
		if total := classTotal[class]; total > 0 {
			values[i] += d * values[i] / total
		} else if classCount[class] > 0 {
			values[i] += d / float64(classCount[class])
		}
	}
	return values
}

// ProjectAllocation returns the class split after trades
func ProjectAllocation(assets []domain.Asset, trades []Trade) domain.Allocation {
	values := ProjectAssetValues(assets, trades)
	var traditional, longevity float64
	for i, a := range assets {
		switch a.ResolvedClass() {
		case domain.ClassTraditional:
			traditional += values[i]
		case domain.ClassLongevity:
			longevity += values[i]
		}
	}
	return allocationOf(traditional, longevity)
}
