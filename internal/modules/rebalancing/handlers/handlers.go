// Package handlers provides HTTP handlers for rebalancing operations.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/rebalancing"
	"github.com/rs/zerolog"
)

// ExecutionLedger reads back recorded executions
type ExecutionLedger interface {
	List(ctx context.Context, limit int) ([]rebalancing.RebalanceExecution, error)
	LastCompleted(ctx context.Context) (time.Time, error)
}

// PriceResolver fills in missing asset prices
type PriceResolver interface {
	Resolve(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error)
}

// Handler handles rebalancing HTTP requests
type Handler struct {
	engine *rebalancing.Engine
	ledger ExecutionLedger
	prices PriceResolver
	clock  domain.Clock
	log    zerolog.Logger
}

// NewHandler creates a new rebalancing handler. ledger and prices may be nil.
func NewHandler(
	engine *rebalancing.Engine,
	ledger ExecutionLedger,
	prices PriceResolver,
	clock domain.Clock,
	log zerolog.Logger,
) *Handler {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Handler{
		engine: engine,
		ledger: ledger,
		prices: prices,
		clock:  clock,
		log:    log.With().Str("handler", "rebalancing").Logger(),
	}
}

// ChecksRequest is a snapshot plus optional pre-computed trades
type ChecksRequest struct {
	rebalancing.Snapshot
	Trades []rebalancing.Trade `json:"trades,omitempty"`
}

// HandleAssess handles POST /api/rebalance/assess
func (h *Handler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	var snapshot rebalancing.Snapshot
	if !h.decode(w, r, &snapshot) {
		return
	}
	snapshot, ok := h.prepare(w, r, snapshot)
	if !ok {
		return
	}

	h.writeData(w, h.engine.AssessRebalanceNeed(snapshot))
}

// HandleTrades handles POST /api/rebalance/trades
func (h *Handler) HandleTrades(w http.ResponseWriter, r *http.Request) {
	var snapshot rebalancing.Snapshot
	if !h.decode(w, r, &snapshot) {
		return
	}
	snapshot, ok := h.prepare(w, r, snapshot)
	if !ok {
		return
	}

	trades := h.engine.GenerateRebalanceTrades(snapshot)
	h.writeData(w, map[string]interface{}{
		"trades":         trades,
		"count":          len(trades),
		"new_allocation": rebalancing.ProjectAllocation(snapshot.Assets, trades),
	})
}

// HandleChecks handles POST /api/rebalance/checks
func (h *Handler) HandleChecks(w http.ResponseWriter, r *http.Request) {
	var req ChecksRequest
	if !h.decode(w, r, &req) {
		return
	}
	snapshot, ok := h.prepare(w, r, req.Snapshot)
	if !ok {
		return
	}
	for _, t := range req.Trades {
		if t.Amount < 0 || (t.Action != rebalancing.ActionBuy && t.Action != rebalancing.ActionSell) {
			http.Error(w, "trades must have a buy or sell action and a non-negative amount", http.StatusBadRequest)
			return
		}
	}

	trades := req.Trades
	if trades == nil {
		trades = h.engine.GenerateRebalanceTrades(snapshot)
	}
	checks := h.engine.PerformRiskGovernanceChecks(snapshot, trades, h.clock.Now())
	h.writeData(w, map[string]interface{}{
		"checks":     checks,
		"trades":     trades,
		"all_passed": rebalancing.AllPassed(checks),
	})
}

// HandleExecute handles POST /api/rebalance/execute
func (h *Handler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var snapshot rebalancing.Snapshot
	if !h.decode(w, r, &snapshot) {
		return
	}
	snapshot, ok := h.prepare(w, r, snapshot)
	if !ok {
		return
	}

	execution, err := h.engine.ExecuteRebalancing(r.Context(), snapshot)
	if execution == nil {
		h.log.Warn().Err(err).Msg("Rebalance execution aborted")
		http.Error(w, "Rebalance execution aborted", http.StatusServiceUnavailable)
		return
	}

	metadata := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if err != nil {
		// The execution happened; only the ledger write failed
		metadata["audit_error"] = err.Error()
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":     execution,
		"metadata": metadata,
	})
}

// HandleListExecutions handles GET /api/rebalance/executions?limit=N
func (h *Handler) HandleListExecutions(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		http.Error(w, "execution ledger not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	executions, err := h.ledger.List(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list executions")
		http.Error(w, "Failed to list executions", http.StatusInternalServerError)
		return
	}
	h.writeData(w, map[string]interface{}{
		"executions": executions,
		"count":      len(executions),
	})
}

// prepare validates the snapshot and fills defaults: as_of from the clock,
// missing prices from the price service and last_rebalance from the ledger.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request, snapshot rebalancing.Snapshot) (rebalancing.Snapshot, bool) {
	if err := snapshot.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return snapshot, false
	}
	if snapshot.AsOf.IsZero() {
		snapshot.AsOf = h.clock.Now()
	}

	if h.prices != nil {
		resolved, err := h.prices.Resolve(r.Context(), snapshot.Assets)
		if err != nil {
			h.log.Warn().Err(err).Msg("Price resolution failed, using submitted prices")
		} else {
			snapshot.Assets = resolved
		}
	}

	if snapshot.LastRebalance.IsZero() && h.ledger != nil {
		last, err := h.ledger.LastCompleted(r.Context())
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to read last rebalance from ledger")
		} else {
			snapshot.LastRebalance = last
		}
	}
	return snapshot, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
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
