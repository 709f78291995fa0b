// internal/app/features/dashboard/handler.go
package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/learnboard/internal/app/analytics"
	"github.com/dalemusser/learnboard/internal/app/system/authz"
	"github.com/dalemusser/learnboard/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Engine *analytics.Engine
	Log    *zap.Logger
}

func NewHandler(engine *analytics.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		Engine: engine,
		Log:    logger,
	}
}

// ServeSummary writes the caller's leaderboard position, or null when the
// leaderboard could not be built.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.PrincipalFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, analytics.Unauthorized)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard summary")
	defer cancel()

	writeJSON(w, http.StatusOK, h.Engine.DashboardSummary(ctx, p))
}

// ServeLeaderboard writes the ranked records and per-user standings across
// the caller's courses, or null.
func (h *Handler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.PrincipalFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, analytics.Unauthorized)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard leaderboard")
	defer cancel()

	writeJSON(w, http.StatusOK, h.Engine.Leaderboard(ctx, p))
}

// ServeCourses writes the caller's enrolled courses.
func (h *Handler) ServeCourses(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.PrincipalFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, analytics.Unauthorized)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "dashboard courses")
	defer cancel()

	writeJSON(w, http.StatusOK, h.Engine.EnrolledCourses(ctx, p))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
