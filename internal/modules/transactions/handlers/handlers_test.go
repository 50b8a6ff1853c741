package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/transactions"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingClassifier struct{}

func (failingClassifier) Classify(context.Context, string, float64) (transactions.Classification, error) {
	return transactions.Classification{}, errors.New("model unavailable")
}

type hangingClassifier struct{}

func (hangingClassifier) Classify(ctx context.Context, _ string, _ float64) (transactions.Classification, error) {
	<-ctx.Done()
	return transactions.Classification{}, ctx.Err()
}

func setupRouter(store *transactions.MemoryStore, classifier transactions.Classifier) *chi.Mux {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(transactions.NewAnalyzer(logger), classifier, store, logger)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func debit(id string, month time.Month, amount float64) domain.Transaction {
	return domain.Transaction{
		ID:       id,
		Date:     time.Date(2026, month, 10, 0, 0, 0, 0, time.UTC),
		Category: "groceries",
		Type:     domain.TransactionDebit,
		Merchant: "Market",
		Amount:   amount,
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

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Contains(t, response, "metadata")
	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "data should be an object")
	return data
}

func TestHandleAnalyze(t *testing.T) {
	router := setupRouter(nil, nil)

	w := post(t, router, "/transactions/analyze", TransactionsRequest{
		Transactions: []domain.Transaction{debit("a", 1, 100), debit("b", 2, 50)},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	data := decodeData(t, w)
	assert.Equal(t, 150.0, data["total_spending"])
	assert.Equal(t, 2.0, data["transaction_count"])
}

func TestHandleAnalyze_InvalidTransaction(t *testing.T) {
	router := setupRouter(nil, nil)

	bad := debit("a", 1, 100)
	bad.Amount = -1
	w := post(t, router, "/transactions/analyze", TransactionsRequest{Transactions: []domain.Transaction{bad}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid transaction")
}

func TestHandleAnalyze_InvalidBody(t *testing.T) {
	router := setupRouter(nil, nil)

	req := httptest.NewRequest("POST", "/transactions/analyze", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleTrend(t *testing.T) {
	router := setupRouter(nil, nil)

	w := post(t, router, "/transactions/trend", TransactionsRequest{
		Transactions: []domain.Transaction{debit("a", 1, 100), debit("b", 2, 300), debit("c", 3, 500)},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "increasing", data["trend"])
	assert.InDelta(t, 200.0, data["slope"], 0.001)
}

func TestHandleBudgetsAndRecurring(t *testing.T) {
	router := setupRouter(nil, nil)
	body := TransactionsRequest{
		Transactions: []domain.Transaction{debit("a", 1, 40), debit("b", 2, 40), debit("c", 3, 40)},
	}

	w := post(t, router, "/transactions/budgets", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeData(t, w), "budgets")

	w = post(t, router, "/transactions/recurring", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeData(t, w), "recurring")
}

func TestHandleClassify_StoresForUser(t *testing.T) {
	store := transactions.NewMemoryStore()
	router := setupRouter(store, failingClassifier{})

	w := post(t, router, "/transactions/classify", ClassifyRequest{
		UserID: "u1",
		Entries: []transactions.RawEntry{
			{ID: "1", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Description: "ACME PAYROLL", Amount: 5000},
			{ID: "2", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Description: "Netflix monthly", Amount: 15},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["stored"])
	assert.Equal(t, 2.0, data["count"])

	stored, err := store.Transactions(context.Background(), "u1", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, domain.TransactionCredit, stored[0].Type)
	assert.Equal(t, "subscriptions", stored[1].Category)

	// The stored user can now be analyzed by ID.
	w = post(t, router, "/transactions/analyze", TransactionsRequest{UserID: "u1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5000.0, decodeData(t, w)["total_income"])
}

func TestHandleClassify_HangingClassifier(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(transactions.NewAnalyzer(logger), hangingClassifier{}, nil, logger).
		WithClassifyTimeout(30 * time.Millisecond)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	start := time.Now()
	w := post(t, router, "/transactions/classify", ClassifyRequest{
		Entries: []transactions.RawEntry{
			{ID: "1", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Description: "ACME PAYROLL", Amount: 5000},
			{ID: "2", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Description: "Uber trip", Amount: 12},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 2.0, decodeData(t, w)["count"])
}

func TestHandleClassify_Validation(t *testing.T) {
	router := setupRouter(nil, nil)

	w := post(t, router, "/transactions/classify", ClassifyRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, router, "/transactions/classify", ClassifyRequest{
		Entries: []transactions.RawEntry{{ID: "1", Description: "no date", Amount: 5}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoad_UserWithoutStore(t *testing.T) {
	router := setupRouter(nil, nil)

	w := post(t, router, "/transactions/analyze", TransactionsRequest{UserID: "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
