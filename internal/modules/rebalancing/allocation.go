// Package rebalancing tracks traditional/longevity allocation against target,
// decides when to rebalance, and carries approved proposals through execution.
package rebalancing

import (
	"math"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/pkg/formulas"
)

// UnknownTypeVolatility applies to asset types missing from the table
const UnknownTypeVolatility = 20.0

var typeVolatility = map[domain.AssetType]float64{
	domain.AssetStock:     18,
	domain.AssetBond:      8,
	domain.AssetETF:       15,
	domain.AssetStaking:   45,
	domain.AssetYield:     35,
	domain.AssetInsurance: 5,
}

// VolatilityForType returns the reference volatility of an asset type
func VolatilityForType(t domain.AssetType) float64 {
	if v, ok := typeVolatility[t]; ok {
		return v
	}
	return UnknownTypeVolatility
}

// CalculateCurrentAllocation splits portfolio value between the two classes.
// Both are 0 when nothing has value; otherwise they sum to 100.
func CalculateCurrentAllocation(assets []domain.Asset) domain.Allocation {
	var traditional, longevity float64
	for _, a := range assets {
		switch a.ResolvedClass() {
		case domain.ClassTraditional:
			traditional += a.Value()
		case domain.ClassLongevity:
			longevity += a.Value()
		}
	}
	return allocationOf(traditional, longevity)
}

func allocationOf(traditional, longevity float64) domain.Allocation {
	total := traditional + longevity
	if total <= 0 {
		return domain.Allocation{}
	}
	t := traditional / total * 100
	return domain.Allocation{Traditional: t, Longevity: 100 - t}
}

// CalculateDrift returns |current − target| per class
func CalculateDrift(current, target domain.Allocation) Drift {
	return Drift{
		Traditional: math.Abs(current.Traditional - target.Traditional),
		Longevity:   math.Abs(current.Longevity - target.Longevity),
	}
}

// CalculatePortfolioVolatility is the value-weighted average of per-type volatility
func CalculatePortfolioVolatility(assets []domain.Asset) float64 {
	var total, weighted float64
	for _, a := range assets {
		v := a.Value()
		total += v
		weighted += v * VolatilityForType(a.Type)
	}
	if total <= 0 {
		return 0
	}
	return formulas.Round(weighted/total, 4)
}
