package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SignInPath    = "/sign-in"
	DashboardPath = "/dashboard"

	// SessionIDHeader carries the caller's session id to downstream handlers.
	SessionIDHeader = "X-Session-Id"
	// RequestIDHeader is set on every gated response.
	RequestIDHeader = "X-Request-Id"
)

// Decision is what the gate does with a request.
type Decision int

const (
	Allow Decision = iota
	RedirectSignIn
	RedirectDashboard
)

func (d Decision) String() string {
	switch d {
	case RedirectSignIn:
		return "redirect-sign-in"
	case RedirectDashboard:
		return "redirect-dashboard"
	default:
		return "allow"
	}
}

// publicPaths are reachable without a session. Signed-in users are sent
// to the dashboard instead.
var publicPaths = map[string]bool{
	"/sign-in":         true,
	"/sign-up":         true,
	"/forgot-password": true,
}

// bypassPrefixes skip the gate entirely.
var bypassPrefixes = []string{
	"/api/auth",
	"/reset-password",
	"/api/trpc",
	"/static/",
	"/favicon.ico",
}

// IsPublic reports whether path is one of the exact public paths.
func IsPublic(path string) bool {
	return publicPaths[path]
}

// Decide routes a request by path and session id. sessionID is empty when
// the caller has no session.
func Decide(path, sessionID string) Decision {
	for _, p := range bypassPrefixes {
		if strings.HasPrefix(path, p) {
			return Allow
		}
	}
	if sessionID != "" {
		if publicPaths[path] {
			return RedirectDashboard
		}
		return Allow
	}
	if publicPaths[path] {
		return Allow
	}
	return RedirectSignIn
}

// Gate applies Decide to every request. Allowed requests with a session
// carry its id in the X-Session-Id header.
func (sm *SessionManager) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set(RequestIDHeader, reqID)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		sid, _ := sm.SessionID(r)
		switch Decide(r.URL.Path, sid) {
		case RedirectDashboard:
			http.Redirect(ww, r, DashboardPath, http.StatusTemporaryRedirect)
		case RedirectSignIn:
			http.Redirect(ww, r, SignInPath, http.StatusTemporaryRedirect)
		case Allow:
			if sid != "" {
				r.Header.Set(SessionIDHeader, sid)
			} else {
				r.Header.Del(SessionIDHeader)
			}
			next.ServeHTTP(ww, r)
		}

		sm.logRequest(r, reqID, ww.Status(), time.Since(start), sid)
	})
}

func (sm *SessionManager) logRequest(r *http.Request, reqID string, status int, took time.Duration, sid string) {
	if !sm.logRequests {
		return
	}
	user := "anonymous"
	if sid != "" {
		user = "authenticated"
	}
	fields := []zap.Field{
		zap.String("request_id", reqID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Duration("took", took),
		zap.String("user", user),
	}
	if status == http.StatusTemporaryRedirect {
		sm.log.Info("gate redirect", fields...)
		return
	}
	sm.log.Info("gate request", fields...)
}
