// internal/app/features/statistics/handler.go
package statistics

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/learnboard/internal/app/analytics"
	"github.com/dalemusser/learnboard/internal/app/system/authz"
	"github.com/dalemusser/learnboard/internal/app/system/ratelimit"
	"github.com/dalemusser/learnboard/internal/app/system/timeouts"
	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the statistics JSON endpoints and the workbook export.
type Handler struct {
	Engine        *analytics.Engine
	ExportMaxRows int
	// ExportLimiter throttles workbook exports per user; nil disables it.
	ExportLimiter *ratelimit.Limiter
	Log           *zap.Logger
}

func NewHandler(engine *analytics.Engine, exportMaxRows int, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:        engine,
		ExportMaxRows: exportMaxRows,
		Log:           logger,
	}
}

var (
	errBadCourse       = errors.New("courseId must be a valid id")
	errBadMenteesCount = errors.New("menteesCount must be a non-negative integer")
	errNoMenteesCount  = errors.New("menteesCount is required")
)

// parseQuery reads courseId, mentorUsername, studentUsername and
// menteesCount from the query string.
func parseQuery(r *http.Request) (analytics.Query, error) {
	v := r.URL.Query()
	var q analytics.Query

	cid, err := primitive.ObjectIDFromHex(strings.TrimSpace(v.Get("courseId")))
	if err != nil {
		return q, errBadCourse
	}
	q.CourseID = cid
	q.MentorUsername = strings.TrimSpace(v.Get("mentorUsername"))
	q.StudentUsername = strings.TrimSpace(v.Get("studentUsername"))

	if s := strings.TrimSpace(v.Get("menteesCount")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, errBadMenteesCount
		}
		q.MenteesCount = n
	}
	return q, nil
}

// begin resolves the principal and query, writing the error response and
// returning ok=false if either is missing.
func (h *Handler) begin(w http.ResponseWriter, r *http.Request) (*models.Principal, analytics.Query, bool) {
	p, ok := authz.PrincipalFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, analytics.Unauthorized)
		return nil, analytics.Query{}, false
	}
	q, err := parseQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, analytics.Failure{Error: err.Error()})
		return nil, analytics.Query{}, false
	}
	return p, q, true
}

func (h *Handler) ServePie(w http.ResponseWriter, r *http.Request) {
	p, q, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "statistics pie")
	defer cancel()
	writeJSON(w, http.StatusOK, h.Engine.Pie(ctx, p, q))
}

// ServeLine requires menteesCount; absentees are derived from it.
func (h *Handler) ServeLine(w http.ResponseWriter, r *http.Request) {
	p, q, ok := h.begin(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(r.URL.Query().Get("menteesCount")) == "" {
		writeJSON(w, http.StatusBadRequest, analytics.Failure{Error: errNoMenteesCount.Error()})
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "statistics line")
	defer cancel()
	writeJSON(w, http.StatusOK, h.Engine.Line(ctx, p, q))
}

func (h *Handler) ServeBar(w http.ResponseWriter, r *http.Request) {
	p, q, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "statistics bar")
	defer cancel()
	writeJSON(w, http.StatusOK, h.Engine.Bar(ctx, p, q))
}

func (h *Handler) ServeMentees(w http.ResponseWriter, r *http.Request) {
	p, q, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "statistics mentees")
	defer cancel()
	writeJSON(w, http.StatusOK, h.Engine.Mentees(ctx, p, q))
}

func (h *Handler) ServeMentors(w http.ResponseWriter, r *http.Request) {
	p, q, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "statistics mentors")
	defer cancel()
	writeJSON(w, http.StatusOK, h.Engine.Mentors(ctx, p, q))
}

func (h *Handler) ServeStudentProgress(w http.ResponseWriter, r *http.Request) {
	p, q, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "statistics student progress")
	defer cancel()
	writeJSON(w, http.StatusOK, h.Engine.StudentProgress(ctx, p, q))
}

func (h *Handler) ServeStudentHeatmap(w http.ResponseWriter, r *http.Request) {
	p, q, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "statistics student heatmap")
	defer cancel()
	writeJSON(w, http.StatusOK, h.Engine.StudentHeatmap(ctx, p, q))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
