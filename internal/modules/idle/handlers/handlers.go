// Package handlers provides HTTP handlers for idle capital analysis.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/idle"
	"github.com/rs/zerolog"
)

// Handler handles idle capital HTTP requests
type Handler struct {
	detector *idle.Detector
	log      zerolog.Logger
}

// NewHandler creates a new idle capital handler
func NewHandler(detector *idle.Detector, log zerolog.Logger) *Handler {
	return &Handler{
		detector: detector,
		log:      log.With().Str("handler", "idle").Logger(),
	}
}

// AccountRequest is the body of POST /api/idle/account
type AccountRequest struct {
	Profile string         `json:"profile"`
	Account domain.Account `json:"account"`
}

// PortfolioRequest is the body of POST /api/idle/portfolio
type PortfolioRequest struct {
	Profile  string           `json:"profile"`
	Accounts []domain.Account `json:"accounts"`
}

// PlanRequest is the body of POST /api/idle/plan
type PlanRequest struct {
	Profile    string  `json:"profile"`
	IdleAmount float64 `json:"idle_amount"`
}

// HandleAccount handles POST /api/idle/account
func (h *Handler) HandleAccount(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if !h.decode(w, r, &req) {
		return
	}
	profile, err := parseProfile(req.Profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Account.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeData(w, h.detector.AnalyzeAccountIdleCapital(req.Account, profile))
}

// HandlePortfolio handles POST /api/idle/portfolio
func (h *Handler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if !h.decode(w, r, &req) {
		return
	}
	profile, err := parseProfile(req.Profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, a := range req.Accounts {
		if err := a.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	analysis, err := h.detector.AnalyzePortfolioIdleCapital(r.Context(), req.Accounts, profile)
	if err != nil {
		h.log.Error().Err(err).Int("accounts", len(req.Accounts)).Msg("Failed to analyze portfolio")
		http.Error(w, "Failed to analyze portfolio", http.StatusInternalServerError)
		return
	}
	h.writeData(w, analysis)
}

// HandlePlan handles POST /api/idle/plan
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if !h.decode(w, r, &req) {
		return
	}
	profile, err := parseProfile(req.Profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.IdleAmount < 0 {
		http.Error(w, fmt.Sprintf("idle_amount must not be negative, got %v", req.IdleAmount), http.StatusBadRequest)
		return
	}

	h.writeData(w, idle.GenerateAllocationPlan(req.IdleAmount, profile))
}

// parseProfile defaults an empty profile to moderate
func parseProfile(s string) (domain.RiskProfile, error) {
	if s == "" {
		return domain.ProfileModerate, nil
	}
	return domain.ParseRiskProfile(s)
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
