// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/learnboard/internal/app/analytics"
	dashboardfeature "github.com/dalemusser/learnboard/internal/app/features/dashboard"
	healthfeature "github.com/dalemusser/learnboard/internal/app/features/health"
	statisticsfeature "github.com/dalemusser/learnboard/internal/app/features/statistics"
	statsstore "github.com/dalemusser/learnboard/internal/app/store/stats"
	userstore "github.com/dalemusser/learnboard/internal/app/store/users"
	"github.com/dalemusser/learnboard/internal/app/system/auth"
	"github.com/dalemusser/learnboard/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler.
//
// /health sits outside the gate so probes need no session. Everything else
// passes through the access gate, then has the session user loaded.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	engine := analytics.New(statsstore.New(deps.MongoDatabase), logger)
	return newRouter(sessionMgr, engine, deps, appCfg, logger), nil
}

func newRouter(sessionMgr *auth.SessionManager, engine *analytics.Engine, deps DBDeps, appCfg AppConfig, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Group(func(gr chi.Router) {
		gr.Use(sessionMgr.Gate)
		gr.Use(sessionMgr.LoadSessionUser)

		statsHandler := statisticsfeature.NewHandler(engine, appCfg.ExportMaxRows, logger)
		if appCfg.ExportRateLimit > 0 {
			statsHandler.ExportLimiter = ratelimit.New(appCfg.ExportRateLimit, appCfg.ExportRateWindow)
		}
		gr.Mount("/api/statistics", statisticsfeature.Routes(statsHandler, sessionMgr))

		dashboardHandler := dashboardfeature.NewHandler(engine, logger)
		gr.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))
	})

	return r
}
