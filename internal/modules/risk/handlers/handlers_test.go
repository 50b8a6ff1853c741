package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/risk"
	"github.com/aristath/ledgerwise/internal/modules/transactions"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

func rent(id string, month time.Month) domain.Transaction {
	return domain.Transaction{
		ID:       id,
		Date:     time.Date(2026, month, 15, 9, 0, 0, 0, time.UTC),
		Amount:   1000,
		Type:     domain.TransactionDebit,
		Category: "rent",
	}
}

func setupRouter(store domain.TransactionStore) *chi.Mux {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(risk.NewScorer(nil, 0, logger), store, domain.FixedClock(asOf), logger)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func score(t *testing.T, router http.Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/risk/score", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleScore(t *testing.T) {
	router := setupRouter(nil)

	w := score(t, router, ScoreRequest{
		Preference:   "moderate",
		TotalCapital: 50000,
		Transactions: []domain.Transaction{rent("1", 1), rent("2", 2), rent("3", 3), rent("4", 4)},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Data     risk.RiskScoreResult   `json:"data"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 20, response.Data.Score)
	assert.Equal(t, domain.ProfileConservative, response.Data.Profile)
	assert.Equal(t, risk.VolatilityNormal, response.Data.VolatilityStatus)
	assert.NotEmpty(t, response.Data.Explanation)
	assert.Equal(t, asOf, response.Data.CalculatedAt)
	assert.NotEmpty(t, response.Metadata["timestamp"])
}

func TestHandleScore_FromStore(t *testing.T) {
	store := transactions.NewMemoryStore()
	require.NoError(t, store.Add("u1", rent("1", 1), rent("2", 2), rent("3", 3), rent("4", 4)))
	router := setupRouter(store)

	w := score(t, router, ScoreRequest{UserID: "u1", Preference: "moderate", TotalCapital: 50000})

	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Data risk.RiskScoreResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 1000.0, response.Data.Components.MonthlySpending)
}

func TestHandleScore_Validation(t *testing.T) {
	router := setupRouter(nil)

	tests := []struct {
		name string
		body interface{}
	}{
		{"unknown preference", ScoreRequest{Preference: "reckless"}},
		{"negative capital", ScoreRequest{TotalCapital: -1}},
		{"invalid transaction", ScoreRequest{Transactions: []domain.Transaction{{ID: "x", Amount: 5, Type: domain.TransactionDebit}}}},
		{"user without store", ScoreRequest{UserID: "u1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := score(t, router, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
