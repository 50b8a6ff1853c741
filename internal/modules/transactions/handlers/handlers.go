// Package handlers provides HTTP handlers for transaction analysis.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/transactions"
	"github.com/rs/zerolog"
)

// Handler handles transaction HTTP requests
type Handler struct {
	analyzer   *transactions.Analyzer
	classifier transactions.Classifier
	store      *transactions.MemoryStore
	timeout    time.Duration
	log        zerolog.Logger
}

// NewHandler creates a new transactions handler. classifier may be nil, in
// which case classification uses the keyword rules only.
func NewHandler(
	analyzer *transactions.Analyzer,
	classifier transactions.Classifier,
	store *transactions.MemoryStore,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		analyzer:   analyzer,
		classifier: classifier,
		store:      store,
		timeout:    transactions.DefaultClassifyTimeout,
		log:        log.With().Str("handler", "transactions").Logger(),
	}
}

// WithClassifyTimeout overrides the per-entry classifier timeout
func (h *Handler) WithClassifyTimeout(d time.Duration) *Handler {
	if d > 0 {
		h.timeout = d
	}
	return h
}

// TransactionsRequest carries inline transactions or a stored user's range
type TransactionsRequest struct {
	From         time.Time            `json:"from,omitempty"`
	To           time.Time            `json:"to,omitempty"`
	UserID       string               `json:"user_id,omitempty"`
	Transactions []domain.Transaction `json:"transactions"`
}

// ClassifyRequest carries raw statement lines to classify
type ClassifyRequest struct {
	UserID  string                  `json:"user_id,omitempty"`
	Entries []transactions.RawEntry `json:"entries"`
}

// HandleAnalyze handles POST /api/transactions/analyze
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.load(w, r)
	if !ok {
		return
	}
	h.writeData(w, h.analyzer.AnalyzeTransactions(txs))
}

// HandleTrend handles POST /api/transactions/trend
func (h *Handler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.load(w, r)
	if !ok {
		return
	}
	h.writeData(w, h.analyzer.CalculateSpendingTrend(txs))
}

// HandleRecurring handles POST /api/transactions/recurring
func (h *Handler) HandleRecurring(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.load(w, r)
	if !ok {
		return
	}
	recurring := h.analyzer.IdentifyRecurringTransactions(txs)
	h.writeData(w, map[string]interface{}{
		"recurring": recurring,
		"count":     len(recurring),
	})
}

// HandleBudgets handles POST /api/transactions/budgets
func (h *Handler) HandleBudgets(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.load(w, r)
	if !ok {
		return
	}
	suggestions := h.analyzer.SuggestBudgets(txs)
	h.writeData(w, map[string]interface{}{
		"budgets": suggestions,
		"count":   len(suggestions),
	})
}

// HandleClassify handles POST /api/transactions/classify.
// When user_id is set the classified transactions are stored for that user.
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Entries) == 0 {
		http.Error(w, "entries must not be empty", http.StatusBadRequest)
		return
	}

	txs, err := transactions.Ingest(r.Context(), h.classifier, h.timeout, h.log, req.Entries)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stored := false
	if req.UserID != "" && h.store != nil {
		if err := h.store.Add(req.UserID, txs...); err != nil {
			h.log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to store transactions")
			http.Error(w, "Failed to store transactions", http.StatusInternalServerError)
			return
		}
		stored = true
	}

	h.writeData(w, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
		"stored":       stored,
	})
}

// load decodes the request and resolves its transactions, writing the error
// response itself when it returns false.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) ([]domain.Transaction, bool) {
	var req TransactionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}

	if req.UserID == "" {
		if err := domain.ValidateTransactions(req.Transactions); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil, false
		}
		return req.Transactions, true
	}

	if h.store == nil {
		http.Error(w, "transaction store not configured", http.StatusBadRequest)
		return nil, false
	}
	if !req.From.IsZero() && !req.To.IsZero() && req.To.Before(req.From) {
		http.Error(w, fmt.Sprintf("to (%s) is before from (%s)", req.To.Format(time.RFC3339), req.From.Format(time.RFC3339)), http.StatusBadRequest)
		return nil, false
	}
	txs, err := h.store.Transactions(r.Context(), req.UserID, req.From, req.To)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to load transactions")
		http.Error(w, "Failed to load transactions", http.StatusInternalServerError)
		return nil, false
	}
	return txs, true
}

func (h *Handler) writeData(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
