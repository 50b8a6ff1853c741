// Package handlers provides HTTP handlers for compliance checks and filing.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/compliance"
	"github.com/aristath/ledgerwise/internal/modules/rebalancing"
	"github.com/rs/zerolog"
)

// defaultFilingPeriod is the lookback used when a filing request has no from date
const defaultFilingPeriod = 30 * 24 * time.Hour

// ReportStore persists and lists compliance reports
type ReportStore interface {
	Save(ctx context.Context, report *compliance.ComplianceReport) error
	ListBetween(ctx context.Context, from, to time.Time) ([]compliance.ComplianceReport, error)
}

// Handler handles compliance HTTP requests
type Handler struct {
	gate    *compliance.Gate
	reports ReportStore
	clock   domain.Clock
	log     zerolog.Logger
}

// NewHandler creates a new compliance handler. reports may be nil, in which
// case reports are not persisted and filing is unavailable.
func NewHandler(gate *compliance.Gate, reports ReportStore, clock domain.Clock, log zerolog.Logger) *Handler {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Handler{
		gate:    gate,
		reports: reports,
		clock:   clock,
		log:     log.With().Str("handler", "compliance").Logger(),
	}
}

// CheckRequest is the body of POST /api/compliance/check
type CheckRequest struct {
	compliance.Snapshot
	Trades []rebalancing.Trade `json:"trades,omitempty"`
}

// CheckResponse is the data of a compliance check. Proposed trades are
// reported beside the stored report; OverallCompliant covers the four
// portfolio checks only.
type CheckResponse struct {
	*compliance.ComplianceReport
	TradeViolations []compliance.Violation `json:"trade_violations"`
	TradesCompliant bool                   `json:"trades_compliant"`
}

// FilingRequest is the body of POST /api/compliance/filing
type FilingRequest struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// HandleCheck handles POST /api/compliance/check
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validateSnapshot(req.Snapshot); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report := h.gate.CheckCompliance(req.Snapshot, h.clock.Now())
	tradeViolations := []compliance.Violation{}
	if len(req.Trades) > 0 {
		tradeViolations = h.gate.ValidateTrades(req.Trades, req.PortfolioValue)
	}

	stored := false
	if h.reports != nil {
		if err := h.reports.Save(r.Context(), report); err != nil {
			h.log.Error().Err(err).Str("report_id", report.ID).Msg("Failed to store compliance report")
		} else {
			stored = true
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": CheckResponse{
			ComplianceReport: report,
			TradeViolations:  tradeViolations,
			TradesCompliant:  len(tradeViolations) == 0,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"stored":    stored,
		},
	})
}

// HandleFiling handles POST /api/compliance/filing. With ?format=text the
// plain text report is returned instead of the JSON envelope.
func (h *Handler) HandleFiling(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		http.Error(w, "report store not configured", http.StatusServiceUnavailable)
		return
	}

	var req FilingRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.log.Error().Err(err).Msg("Failed to decode request body")
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	now := h.clock.Now()
	if req.To.IsZero() {
		req.To = now
	}
	if req.From.IsZero() {
		req.From = req.To.Add(-defaultFilingPeriod)
	}
	if req.To.Before(req.From) {
		http.Error(w, "to must not be before from", http.StatusBadRequest)
		return
	}

	reports, err := h.reports.ListBetween(r.Context(), req.From, req.To)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list compliance reports")
		http.Error(w, "Failed to list compliance reports", http.StatusInternalServerError)
		return
	}
	text := compliance.FormatFilingReport(reports, now)

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(text)); err != nil {
			h.log.Error().Err(err).Msg("Failed to write filing report")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"report": text,
			"count":  len(reports),
			"from":   req.From,
			"to":     req.To,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func validateSnapshot(s compliance.Snapshot) error {
	if _, err := domain.ParseRiskProfile(string(s.Profile)); err != nil {
		return err
	}
	// An empty portfolio has no shares to sum.
	if s.PortfolioValue != 0 || s.Allocation != (domain.Allocation{}) {
		if err := s.Allocation.Validate(); err != nil {
			return err
		}
	}
	if s.Target != (domain.Allocation{}) {
		if err := s.Target.Validate(); err != nil {
			return err
		}
	}
	if s.PortfolioValue < 0 {
		return fmt.Errorf("portfolio_value must not be negative")
	}
	if s.Volatility < 0 || s.Volatility > 100 {
		return fmt.Errorf("volatility %v outside [0,100]", s.Volatility)
	}
	return nil
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
