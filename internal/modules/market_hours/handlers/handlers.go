// Package handlers provides HTTP handlers for market hours operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/market_hours"
	"github.com/rs/zerolog"
)

// Handler handles market hours HTTP requests
type Handler struct {
	service *market_hours.MarketHoursService
	clock   domain.Clock
	log     zerolog.Logger
}

// NewHandler creates a new market hours handler
func NewHandler(
	service *market_hours.MarketHoursService,
	clock domain.Clock,
	log zerolog.Logger,
) *Handler {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Handler{
		service: service,
		clock:   clock,
		log:     log.With().Str("handler", "market_hours").Logger(),
	}
}

// HandleGetStatus handles GET /api/market-hours/status
// Returns the market status now, or at the RFC3339 instant in ?at=
func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	at, ok := h.instant(w, r)
	if !ok {
		return
	}

	status := h.service.GetMarketStatus(at)

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"checked_at": at.Format(time.RFC3339),
			"status":     status,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleValidateTradingWindow handles GET /api/market-hours/validate-trading-window
// Checks if a rebalance may execute now
func (h *Handler) HandleValidateTradingWindow(w http.ResponseWriter, r *http.Request) {
	at, ok := h.instant(w, r)
	if !ok {
		return
	}

	isOpen := h.service.IsMarketOpen(at)

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"can_rebalance": isOpen,
			"market_open":   isOpen,
			"timezone":      h.service.Location().String(),
			"checked_at":    at.Format(time.RFC3339),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) instant(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return h.clock.Now(), true
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		http.Error(w, "at must be an RFC3339 timestamp", http.StatusBadRequest)
		return time.Time{}, false
	}
	return at, true
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
