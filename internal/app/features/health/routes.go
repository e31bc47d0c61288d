package health

import "github.com/go-chi/chi/v5"

// Routes mounts the health check. It is public so load balancers can poll it.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	return r
}
