package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/learnboard/internal/app/analytics"
	"github.com/dalemusser/learnboard/internal/app/system/auth"
	"github.com/dalemusser/learnboard/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "learnboard",
		SessionKey:    strings.Repeat("k", 40),
		SessionName:   "learnboard-session",
		SessionMaxAge: time.Hour,
		ExportMaxRows: 100,
	}
}

func TestValidateApp(t *testing.T) {
	if err := validateApp("prod", validAppConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		env    string
		mutate func(*AppConfig)
	}{
		{"short key in prod", "prod", func(c *AppConfig) { c.SessionKey = "short" }},
		{"no database", "dev", func(c *AppConfig) { c.MongoDatabase = "" }},
		{"no session name", "dev", func(c *AppConfig) { c.SessionName = "" }},
		{"zero max age", "dev", func(c *AppConfig) { c.SessionMaxAge = 0 }},
		{"negative export rows", "dev", func(c *AppConfig) { c.ExportMaxRows = -1 }},
		{"negative export rate", "dev", func(c *AppConfig) { c.ExportRateLimit = -1 }},
		{"rate without window", "dev", func(c *AppConfig) { c.ExportRateLimit = 5; c.ExportRateWindow = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validAppConfig()
			tc.mutate(&cfg)
			if err := validateApp(tc.env, cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	short := validAppConfig()
	short.SessionKey = "short"
	if err := validateApp("dev", short); err != nil {
		t.Errorf("short key should be accepted in dev: %v", err)
	}
}

func TestApplyTimeouts(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	cfg := validAppConfig()
	cfg.TimeoutMedium = 3 * time.Second
	applyTimeouts(cfg)

	cur := timeouts.Current()
	if cur.Medium != 3*time.Second {
		t.Errorf("Medium = %v, want 3s", cur.Medium)
	}
	if cur.Short != timeouts.DefaultShort {
		t.Errorf("Short = %v, want default", cur.Short)
	}
}

func testRouter(t *testing.T) (http.Handler, *auth.SessionManager) {
	t.Helper()
	sm, err := auth.NewSessionManager(strings.Repeat("k", 40), "test", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	engine := analytics.New(nil, zap.NewNop())
	return newRouter(sm, engine, DBDeps{}, validAppConfig(), zap.NewNop()), sm
}

func TestRouter_GateRedirectsAnonymous(t *testing.T) {
	r, _ := testRouter(t)

	for _, path := range []string{"/api/statistics/pie", "/dashboard/summary"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusTemporaryRedirect {
			t.Errorf("%s: status = %d, want 307", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != auth.SignInPath {
			t.Errorf("%s: Location = %q, want %q", path, loc, auth.SignInPath)
		}
	}
}

func TestRouter_SignedInReachesHandlers(t *testing.T) {
	r, sm := testRouter(t)

	login := httptest.NewRecorder()
	if _, err := sm.StartSession(login, httptest.NewRequest("GET", "/", nil), "507f1f77bcf86cd799439011"); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/api/statistics/pie?courseId=bad", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(auth.RequestIDHeader) == "" {
		t.Error("expected request id header from the gate")
	}
}
