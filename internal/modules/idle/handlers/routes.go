package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all idle capital routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/idle", func(r chi.Router) {
		r.Post("/account", h.HandleAccount)
		r.Post("/portfolio", h.HandlePortfolio)
		r.Post("/plan", h.HandlePlan)
	})
}
