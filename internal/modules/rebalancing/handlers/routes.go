package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all rebalancing routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rebalance", func(r chi.Router) {
		r.Post("/assess", h.HandleAssess)
		r.Post("/trades", h.HandleTrades)
		r.Post("/checks", h.HandleChecks)
		r.Post("/execute", h.HandleExecute)
		r.Get("/executions", h.HandleListExecutions)
	})
}
