package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/compliance"
	"github.com/aristath/ledgerwise/internal/modules/rebalancing"
	testingpkg "github.com/aristath/ledgerwise/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T, withStore bool) *chi.Mux {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	var store ReportStore
	if withStore {
		store = compliance.NewReportRepository(testingpkg.NewTestDB(t, "ledger"), logger)
	}

	handler := NewHandler(compliance.NewGate(compliance.DefaultPolicy(), logger), store, domain.FixedClock(now), logger)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func healthySnapshot() compliance.Snapshot {
	return compliance.Snapshot{
		LastRebalance:  now.AddDate(0, 0, -30),
		Profile:        domain.ProfileModerate,
		Allocation:     domain.Allocation{Traditional: 70, Longevity: 30},
		PortfolioValue: 100000,
		Volatility:     15,
	}
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

type checkResponse struct {
	Data struct {
		compliance.ComplianceReport
		TradeViolations []compliance.Violation `json:"trade_violations"`
		TradesCompliant bool                   `json:"trades_compliant"`
	} `json:"data"`
	Metadata map[string]interface{} `json:"metadata"`
}

func TestHandleCheck_Healthy(t *testing.T) {
	router := setupRouter(t, true)

	w := post(t, router, "/compliance/check", CheckRequest{Snapshot: healthySnapshot()})

	require.Equal(t, http.StatusOK, w.Code)
	var response checkResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.Data.OverallCompliant)
	assert.Len(t, response.Data.Checks, 4)
	assert.True(t, response.Data.TradesCompliant)
	assert.Empty(t, response.Data.TradeViolations)
	assert.Equal(t, true, response.Metadata["stored"])
}

func TestHandleCheck_TradeViolations(t *testing.T) {
	router := setupRouter(t, false)

	w := post(t, router, "/compliance/check", CheckRequest{
		Snapshot: healthySnapshot(),
		Trades: []rebalancing.Trade{
			{Action: rebalancing.ActionSell, Class: domain.ClassTraditional, Amount: 30000},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var response checkResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	// The portfolio itself is healthy: every check passes and the verdict agrees.
	for _, c := range response.Data.Checks {
		assert.True(t, c.Passed, c.Name)
	}
	assert.True(t, response.Data.OverallCompliant)
	assert.Empty(t, response.Data.Violations)

	assert.False(t, response.Data.TradesCompliant)
	require.Len(t, response.Data.TradeViolations, 1)
	assert.Equal(t, compliance.CheckSingleTradeSize, response.Data.TradeViolations[0].Check)
	assert.Equal(t, false, response.Metadata["stored"])
}

func TestHandleCheck_EmptyPortfolio(t *testing.T) {
	router := setupRouter(t, false)

	empty := healthySnapshot()
	empty.Allocation = domain.Allocation{}
	empty.PortfolioValue = 0

	w := post(t, router, "/compliance/check", CheckRequest{Snapshot: empty})
	require.Equal(t, http.StatusOK, w.Code)
	var response checkResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Data.Checks, 4)

	// A zero allocation still needs a zero portfolio.
	funded := empty
	funded.PortfolioValue = 5000
	w = post(t, router, "/compliance/check", CheckRequest{Snapshot: funded})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCheck_Validation(t *testing.T) {
	router := setupRouter(t, false)

	noProfile := healthySnapshot()
	noProfile.Profile = ""

	badAllocation := healthySnapshot()
	badAllocation.Allocation = domain.Allocation{Traditional: 60, Longevity: 30}

	badVolatility := healthySnapshot()
	badVolatility.Volatility = 120

	for name, s := range map[string]compliance.Snapshot{
		"profile":    noProfile,
		"allocation": badAllocation,
		"volatility": badVolatility,
	} {
		t.Run(name, func(t *testing.T) {
			w := post(t, router, "/compliance/check", CheckRequest{Snapshot: s})
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleFiling(t *testing.T) {
	router := setupRouter(t, true)

	breach := healthySnapshot()
	breach.Volatility = 30
	require.Equal(t, http.StatusOK, post(t, router, "/compliance/check", CheckRequest{Snapshot: healthySnapshot()}).Code)
	require.Equal(t, http.StatusOK, post(t, router, "/compliance/check", CheckRequest{Snapshot: breach}).Code)

	w := post(t, router, "/compliance/filing", FilingRequest{})
	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Data struct {
			Report string `json:"report"`
			Count  int    `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 2, response.Data.Count)
	assert.Contains(t, response.Data.Report, "COMPLIANCE FILING REPORT")
	assert.Contains(t, response.Data.Report, "Reports: 2  Compliant: 1  Non-compliant: 1")

	req := httptest.NewRequest("POST", "/compliance/filing?format=text", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "VIOLATIONS")
}

func TestHandleFiling_Validation(t *testing.T) {
	router := setupRouter(t, true)

	w := post(t, router, "/compliance/filing", FilingRequest{From: now, To: now.AddDate(0, 0, -1)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	noStore := setupRouter(t, false)
	w = post(t, noStore, "/compliance/filing", FilingRequest{})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
