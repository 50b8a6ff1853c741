package rebalancing

import (
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMarket bool

func (s stubMarket) IsMarketOpen(time.Time) bool { return bool(s) }

func checksByName(checks []RiskCheck) map[string]RiskCheck {
	out := make(map[string]RiskCheck, len(checks))
	for _, c := range checks {
		out[c.Name] = c
	}
	return out
}

func TestPerformRiskGovernanceChecks_DriftedPortfolioPasses(t *testing.T) {
	s := driftedPortfolio()
	checks := PerformRiskGovernanceChecks(s, GenerateRebalanceTrades(s), s.AsOf, stubMarket(true), DefaultThresholds())

	require.Len(t, checks, 5)
	assert.True(t, AllPassed(checks))

	byName := checksByName(checks)
	assert.InDelta(t, 18.0, byName[CheckVolatility].Value, 1e-9)
	assert.Equal(t, 6.0, byName[CheckTradeSize].Value)
	assert.Less(t, byName[CheckPostTradeDrift].Value, 2.0)
	assert.Equal(t, 1300.0, byName[CheckMinAssetValue].Value)
}

func TestPerformRiskGovernanceChecks_Failures(t *testing.T) {
	tests := []struct {
		name   string
		assets []domain.Asset
		open   bool
		failed string
	}{
		{
			name:   "market closed",
			assets: driftedPortfolio().Assets,
			open:   false,
			failed: CheckMarketHours,
		},
		{
			name: "volatility above ceiling",
			assets: []domain.Asset{
				asset("stk", domain.AssetStock, 6000),
				asset("stake", domain.AssetStaking, 4000),
			},
			open:   true,
			failed: CheckVolatility,
		},
		{
			name: "trade too large",
			assets: []domain.Asset{
				asset("stk", domain.AssetStock, 9500),
				asset("ins", domain.AssetInsurance, 500),
			},
			open:   true,
			failed: CheckTradeSize,
		},
		{
			name: "small position drained",
			assets: []domain.Asset{
				asset("stk", domain.AssetStock, 5000),
				asset("ins", domain.AssetInsurance, 4880),
				asset("tiny", domain.AssetYield, 120),
			},
			open:   true,
			failed: CheckMinAssetValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := driftedPortfolio()
			s.Assets = tt.assets
			checks := PerformRiskGovernanceChecks(s, GenerateRebalanceTrades(s), s.AsOf, stubMarket(tt.open), DefaultThresholds())

			require.Len(t, checks, 5)
			assert.False(t, checksByName(checks)[tt.failed].Passed)
			assert.False(t, AllPassed(checks))
		})
	}
}

func TestPerformRiskGovernanceChecks_NilMarketClockFailsClosed(t *testing.T) {
	s := driftedPortfolio()
	checks := PerformRiskGovernanceChecks(s, GenerateRebalanceTrades(s), s.AsOf, nil, DefaultThresholds())
	assert.False(t, checksByName(checks)[CheckMarketHours].Passed)
}
