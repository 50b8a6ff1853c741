// Package handlers provides HTTP handlers for risk scoring.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/risk"
	"github.com/rs/zerolog"
)

// Handler handles risk scoring HTTP requests
type Handler struct {
	scorer *risk.Scorer
	store  domain.TransactionStore
	clock  domain.Clock
	log    zerolog.Logger
}

// NewHandler creates a new risk handler. store may be nil when only inline
// transactions are accepted.
func NewHandler(
	scorer *risk.Scorer,
	store domain.TransactionStore,
	clock domain.Clock,
	log zerolog.Logger,
) *Handler {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Handler{
		scorer: scorer,
		store:  store,
		clock:  clock,
		log:    log.With().Str("handler", "risk").Logger(),
	}
}

// ScoreRequest is the body of POST /api/risk/score
type ScoreRequest struct {
	AsOf         time.Time            `json:"as_of,omitempty"`
	UserID       string               `json:"user_id,omitempty"`
	Preference   string               `json:"preference"`
	Transactions []domain.Transaction `json:"transactions"`
	TotalCapital float64              `json:"total_capital"`
}

// HandleScore handles POST /api/risk/score
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	preference := domain.ProfileModerate
	if req.Preference != "" {
		p, err := domain.ParseRiskProfile(req.Preference)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		preference = p
	}
	if req.TotalCapital < 0 {
		http.Error(w, "total_capital must not be negative", http.StatusBadRequest)
		return
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = h.clock.Now()
	}

	txs := req.Transactions
	if req.UserID != "" {
		if h.store == nil {
			http.Error(w, "transaction store not configured", http.StatusBadRequest)
			return
		}
		stored, err := h.store.Transactions(r.Context(), req.UserID, asOf.AddDate(-1, 0, 0), asOf)
		if err != nil {
			h.log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to load transactions")
			http.Error(w, "Failed to load transactions", http.StatusInternalServerError)
			return
		}
		txs = stored
	} else if err := domain.ValidateTransactions(txs); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.scorer.ScoreUserRisk(r.Context(), risk.Input{
		AsOf:         asOf,
		Preference:   preference,
		Transactions: txs,
		TotalCapital: req.TotalCapital,
	})
	if err != nil {
		if r.Context().Err() != nil {
			h.log.Warn().Err(err).Msg("Risk scoring cancelled")
			return
		}
		h.log.Error().Err(err).Msg("Failed to score risk")
		http.Error(w, "Failed to score risk", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": result,
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
