package reporthttp

import (
	"github.com/go-chi/chi/v5"

	"github.com/merenda-app/merenda/internal/shared"
)

// MountRoutes registers report routes behind the policy guards.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermReportsView))
		r.Get("/monthly", h.handleMonthly)
		r.Get("/compare", h.handleCompare)
		r.Get("/annual", h.handleAnnual)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermReportsExport))
		r.Get("/monthly/pdf", h.handleMonthlyPDF)
		r.Get("/monthly/csv", h.handleMonthlyCSV)
		r.Get("/annual/pdf", h.handleAnnualPDF)
		r.Get("/annual/csv", h.handleAnnualCSV)
	})
}
