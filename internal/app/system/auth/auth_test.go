package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/learnboard/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// signedInRequest starts a session for userID and returns a request that
// carries the resulting cookie, plus the session id.
func signedInRequest(t *testing.T, sm *auth.SessionManager, path, userID string) (*http.Request, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	sid, err := sm.StartSession(rec, httptest.NewRequest("GET", "/", nil), userID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req, sid
}

type stubFetcher map[string]*auth.SessionUser

func (f stubFetcher) FetchUser(_ context.Context, userID string) *auth.SessionUser {
	u, ok := f[userID]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func TestNewSessionManager_RejectsEmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
	if _, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session name")
	}
}

func TestRequireSignedIn_NoUser_HTML_RedirectsToSignIn(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/sign-in") {
		t.Errorf("expected redirect to /sign-in, got %q", loc)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/statistics/pie", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if body := rec.Body.String(); body != `{"error":"Unauthorized"}` {
		t.Errorf("unexpected body %q", body)
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := auth.WithTestUser(httptest.NewRequest("GET", "/x", nil), &auth.SessionUser{ID: "507f1f77bcf86cd799439011"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("expected handler to be called")
	}
}

func TestLoadSessionUser_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{
		"507f1f77bcf86cd799439011": {ID: "507f1f77bcf86cd799439011", Username: "alice", Role: "STUDENT"},
	})

	req, sid := signedInRequest(t, sm, "/x", "507f1f77bcf86cd799439011")

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user in context")
	}
	if got.Username != "alice" || got.Role != "STUDENT" {
		t.Errorf("unexpected user %+v", got)
	}
	if got.SessionID != sid {
		t.Errorf("SessionID = %q, want %q", got.SessionID, sid)
	}
}

func TestLoadSessionUser_DeletedUser(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{})

	req, _ := signedInRequest(t, sm, "/x", "507f1f77bcf86cd799439011")

	found := true
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentUser(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("expected no user when fetcher cannot find them")
	}
}

func TestLoadSessionUser_TamperedCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	req := httptest.NewRequest("GET", "/x", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "garbage"})

	found := true
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentUser(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("expected no user for an undecodable cookie")
	}
	if _, ok := sm.SessionID(req); ok {
		t.Error("expected no session id for an undecodable cookie")
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	user, ok := auth.CurrentUser(httptest.NewRequest("GET", "/", nil))
	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
}
