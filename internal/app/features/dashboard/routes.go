// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/hygienedash/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard page under whatever mount point the top-level
// router chooses (e.g., "/dashboard").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeDashboard)
		pr.Post("/refresh", h.HandleRefresh)
	})
	return r
}

// APIRoutes serves the dashboard aggregates as JSON (mounted at /api/dashboard).
func APIRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeAPI)
	})
	return r
}
