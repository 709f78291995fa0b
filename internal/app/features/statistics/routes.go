// internal/app/features/statistics/routes.go
package statistics

import (
	"net/http"

	"github.com/dalemusser/learnboard/internal/app/system/auth"
	"github.com/dalemusser/learnboard/internal/app/system/authz"
	"github.com/dalemusser/learnboard/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes wires the statistics endpoints; mounted at "/api/statistics".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/pie", h.ServePie)
		pr.Get("/line", h.ServeLine)
		pr.Get("/bar", h.ServeBar)
		pr.Get("/mentees", h.ServeMentees)
		pr.Get("/mentors", h.ServeMentors)
		pr.Get("/student/progress", h.ServeStudentProgress)
		pr.Get("/student/heatmap", h.ServeStudentHeatmap)
		pr.With(ratelimit.Middleware(h.ExportLimiter, exportKey, h.Log)).
			Get("/export.xlsx", h.ServeExport)
	})

	return r
}

// exportKey counts exports per signed-in user, falling back to client IP.
func exportKey(r *http.Request) string {
	if p, ok := authz.PrincipalFrom(r); ok {
		return "user:" + p.ID.Hex()
	}
	return "ip:" + ratelimit.ClientIP(r)
}
