package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all transaction routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Post("/analyze", h.HandleAnalyze)
		r.Post("/trend", h.HandleTrend)
		r.Post("/recurring", h.HandleRecurring)
		r.Post("/budgets", h.HandleBudgets)
		r.Post("/classify", h.HandleClassify)
	})
}
