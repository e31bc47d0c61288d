// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/dalemusser/hygienedash/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the attendance page, refresh and exports (at /attendance).
// Export buttons are hidden for viewers, but the routes only need sign-in.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeAttendance)
		pr.Post("/refresh", h.HandleRefresh)
		pr.Get("/export.csv", h.ServeCSV)
		pr.Get("/export.xlsx", h.ServeXLSX)
	})
	return r
}

// APIRoutes serves the filtered records as JSON (mounted at /api/attendance).
func APIRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeAPI)
	})
	return r
}
