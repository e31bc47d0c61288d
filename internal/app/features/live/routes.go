// internal/app/features/live/routes.go
package live

import (
	"github.com/dalemusser/hygienedash/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the live update socket.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeLive)
	return r
}
