package rebalancing

import (
	"math"
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func asset(id string, typ domain.AssetType, value float64) domain.Asset {
	return domain.Asset{ID: id, Name: id, Type: typ, Quantity: 1, CurrentPrice: value}
}

// driftedPortfolio is 76/24 traditional/longevity with 18% volatility
func driftedPortfolio() Snapshot {
	return Snapshot{
		AsOf:          time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC),
		LastRebalance: time.Date(2026, 1, 4, 11, 0, 0, 0, time.UTC),
		Profile:       domain.ProfileModerate,
		Assets: []domain.Asset{
			asset("stk", domain.AssetStock, 7600),
			asset("yld", domain.AssetYield, 1040),
			asset("ins", domain.AssetInsurance, 1360),
		},
	}
}

func TestCalculateCurrentAllocation(t *testing.T) {
	alloc := CalculateCurrentAllocation(driftedPortfolio().Assets)
	assert.InDelta(t, 76.0, alloc.Traditional, 1e-9)
	assert.InDelta(t, 24.0, alloc.Longevity, 1e-9)
}

func TestCalculateCurrentAllocation_ZeroValue(t *testing.T) {
	assets := []domain.Asset{{ID: "a", Type: domain.AssetStock, Quantity: 10}}
	assert.Equal(t, domain.Allocation{}, CalculateCurrentAllocation(assets))
	assert.Equal(t, domain.Allocation{}, CalculateCurrentAllocation(nil))
}

func TestCalculateCurrentAllocation_ExplicitClassWins(t *testing.T) {
	a := asset("custom", "annuity", 500)
	a.Class = domain.ClassLongevity
	alloc := CalculateCurrentAllocation([]domain.Asset{a, asset("b", domain.AssetBond, 500)})
	assert.Equal(t, 50.0, alloc.Longevity)
}

func TestCalculateDrift(t *testing.T) {
	d := CalculateDrift(domain.Allocation{Traditional: 62, Longevity: 38}, domain.DefaultTargetAllocation)
	assert.Equal(t, 8.0, d.Traditional)
	assert.Equal(t, 8.0, d.Longevity)
	assert.Equal(t, 8.0, d.Max())
}

func TestCalculatePortfolioVolatility(t *testing.T) {
	assert.InDelta(t, 18.0, CalculatePortfolioVolatility(driftedPortfolio().Assets), 1e-9)
	assert.Equal(t, 0.0, CalculatePortfolioVolatility(nil))
	assert.Equal(t, UnknownTypeVolatility, CalculatePortfolioVolatility([]domain.Asset{asset("x", "crypto", 100)}))
}

func TestAllocationSumsTo100(t *testing.T) {
	properties := gopter.NewProperties(nil)
	types := []domain.AssetType{domain.AssetStock, domain.AssetBond, domain.AssetETF, domain.AssetStaking, domain.AssetYield, domain.AssetInsurance}

	properties.Property("traditional + longevity is 100 or both 0", prop.ForAll(
		func(values []float64) bool {
			assets := make([]domain.Asset, len(values))
			var total float64
			for i, v := range values {
				assets[i] = asset("a", types[i%len(types)], v)
				total += assets[i].Value()
			}
			alloc := CalculateCurrentAllocation(assets)
			if total <= 0 {
				return alloc.Traditional == 0 && alloc.Longevity == 0
			}
			return math.Abs(alloc.Traditional+alloc.Longevity-100) < 1e-9
		},
		gen.SliceOf(gen.Float64Range(0, 1e6)),
	))

	properties.TestingRun(t)
}
