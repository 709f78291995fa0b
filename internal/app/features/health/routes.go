// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// Routes serves GET / (mongo readiness) and GET /live (process liveness).
// Mounted at /health, outside the access gate.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	r.Get("/live", h.ServeLive)
	return r
}
