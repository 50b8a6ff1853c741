package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/rebalancing"
	testingpkg "github.com/aristath/ledgerwise/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)

type openMarket struct{}

func (openMarket) IsMarketOpen(time.Time) bool { return true }

type fixedPrices map[string]float64

func (p fixedPrices) Resolve(_ context.Context, assets []domain.Asset) ([]domain.Asset, error) {
	out := make([]domain.Asset, len(assets))
	copy(out, assets)
	for i := range out {
		if out[i].CurrentPrice == 0 {
			out[i].CurrentPrice = p[out[i].ID]
		}
	}
	return out, nil
}

func asset(id string, typ domain.AssetType, value float64) domain.Asset {
	return domain.Asset{ID: id, Name: id, Type: typ, Quantity: 1, CurrentPrice: value}
}

func driftedSnapshot() rebalancing.Snapshot {
	return rebalancing.Snapshot{
		AsOf:          now,
		LastRebalance: time.Date(2026, 1, 4, 11, 0, 0, 0, time.UTC),
		Profile:       domain.ProfileModerate,
		Assets: []domain.Asset{
			asset("stk", domain.AssetStock, 7600),
			asset("yld", domain.AssetYield, 1040),
			asset("ins", domain.AssetInsurance, 1360),
		},
	}
}

func setupRouter(t *testing.T, prices PriceResolver) *chi.Mux {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	ledger := rebalancing.NewAuditRepository(testingpkg.NewTestDB(t, "ledger"), logger)
	engine := rebalancing.NewEngine(
		rebalancing.DefaultThresholds(),
		openMarket{},
		rebalancing.NewSimulatedExecutor(0, logger),
		ledger,
		domain.FixedClock(now),
		logger,
	)
	handler := NewHandler(engine, ledger, prices, domain.FixedClock(now), logger)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func post(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleAssess(t *testing.T) {
	router := setupRouter(t, nil)

	w := post(t, router, "/rebalance/assess", driftedSnapshot())

	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Data rebalancing.Assessment `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.Data.ShouldRebalance)
	assert.InDelta(t, 76.0, response.Data.CurrentAllocation.Traditional, 1e-9)
	assert.InDelta(t, 6.0, response.Data.Drift.Traditional, 1e-9)
}

func TestHandleTrades(t *testing.T) {
	router := setupRouter(t, nil)

	w := post(t, router, "/rebalance/trades", driftedSnapshot())

	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Data struct {
			Trades        []rebalancing.Trade `json:"trades"`
			NewAllocation domain.Allocation   `json:"new_allocation"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.Data.Trades, 2)
	assert.Equal(t, rebalancing.ActionSell, response.Data.Trades[0].Action)
	assert.Equal(t, 600.0, response.Data.Trades[0].Amount)
	assert.InDelta(t, 70.0, response.Data.NewAllocation.Traditional, 0.01)
}

func TestHandleChecks(t *testing.T) {
	router := setupRouter(t, nil)

	w := post(t, router, "/rebalance/checks", ChecksRequest{Snapshot: driftedSnapshot()})
	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Data struct {
			Checks    []rebalancing.RiskCheck `json:"checks"`
			AllPassed bool                    `json:"all_passed"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Data.Checks, 5)
	assert.True(t, response.Data.AllPassed)

	oversized := ChecksRequest{
		Snapshot: driftedSnapshot(),
		Trades: []rebalancing.Trade{
			{Action: rebalancing.ActionSell, Class: domain.ClassTraditional, Amount: 5000},
			{Action: rebalancing.ActionBuy, Class: domain.ClassLongevity, Amount: 5000},
		},
	}
	w = post(t, router, "/rebalance/checks", oversized)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.False(t, response.Data.AllPassed)
}

func TestHandleExecuteAndList(t *testing.T) {
	router := setupRouter(t, nil)

	w := post(t, router, "/rebalance/execute", driftedSnapshot())
	require.Equal(t, http.StatusOK, w.Code)
	var executed struct {
		Data     rebalancing.RebalanceExecution `json:"data"`
		Metadata map[string]interface{}         `json:"metadata"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&executed))
	assert.Equal(t, rebalancing.StatusCompleted, executed.Data.Status)
	assert.True(t, executed.Data.Approved)
	assert.NotContains(t, executed.Metadata, "audit_error")

	req := httptest.NewRequest("GET", "/rebalance/executions?limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Data struct {
			Executions []rebalancing.RebalanceExecution `json:"executions"`
			Count      int                              `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listed))
	require.Equal(t, 1, listed.Data.Count)
	assert.Equal(t, executed.Data.ID, listed.Data.Executions[0].ID)
}

func TestHandleListExecutions_BadLimit(t *testing.T) {
	router := setupRouter(t, nil)

	req := httptest.NewRequest("GET", "/rebalance/executions?limit=-3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrepare_ResolvesMissingPrices(t *testing.T) {
	router := setupRouter(t, fixedPrices{"stk": 7600})

	snapshot := driftedSnapshot()
	snapshot.Assets[0].CurrentPrice = 0
	w := post(t, router, "/rebalance/assess", snapshot)

	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Data rebalancing.Assessment `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.InDelta(t, 76.0, response.Data.CurrentAllocation.Traditional, 1e-9)
}

func TestValidation(t *testing.T) {
	router := setupRouter(t, nil)

	badTarget := driftedSnapshot()
	badTarget.Target = domain.Allocation{Traditional: 80, Longevity: 30}

	badAsset := driftedSnapshot()
	badAsset.Assets[1].Volatility = 140

	badProfile := driftedSnapshot()
	badProfile.Profile = "reckless"

	for name, snapshot := range map[string]rebalancing.Snapshot{
		"target":  badTarget,
		"asset":   badAsset,
		"profile": badProfile,
	} {
		t.Run(name, func(t *testing.T) {
			w := post(t, router, "/rebalance/assess", snapshot)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := post(t, router, "/rebalance/checks", ChecksRequest{
		Snapshot: driftedSnapshot(),
		Trades:   []rebalancing.Trade{{Action: "hold", Amount: 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
