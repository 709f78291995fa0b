// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minSessionKeyLen is the shortest session key accepted outside dev.
const minSessionKeyLen = 32

// appConfigKeys defines the configuration keys for learnboard.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: LEARNBOARD_MONGO_URI, LEARNBOARD_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "learnboard", Desc: "MongoDB database name"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key shared with the sign-in service"},
	{Name: "session_name", Default: "learnboard-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document lookups"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for one statistics query"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for workbook export and index builds"},

	{Name: "export_max_rows", Default: 5000, Desc: "Max rows per list sheet in the statistics export (0 = no cap)"},
	{Name: "export_rate_limit", Default: 10, Desc: "Workbook exports allowed per user per window (0 = unlimited)"},
	{Name: "export_rate_window", Default: "1m", Desc: "Window for export_rate_limit"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Precedence: flags > env (LEARNBOARD_*) > config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LEARNBOARD", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),

		ExportMaxRows:    appValues.Int("export_max_rows"),
		ExportRateLimit:  appValues.Int("export_rate_limit"),
		ExportRateWindow: appValues.Duration("export_rate_window", time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked before any connection is attempted,
// and outside dev the session key must be long enough to sign cookies.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(coreCfg.Env, appCfg)
}

func validateApp(env string, appCfg AppConfig) error {
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}
	if appCfg.SessionName == "" {
		return fmt.Errorf("session_name must be set")
	}
	if env != "dev" && len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d characters outside dev", minSessionKeyLen)
	}
	if appCfg.SessionMaxAge <= 0 {
		return fmt.Errorf("session_max_age must be positive")
	}
	if appCfg.ExportMaxRows < 0 {
		return fmt.Errorf("export_max_rows must not be negative")
	}
	if appCfg.ExportRateLimit < 0 {
		return fmt.Errorf("export_rate_limit must not be negative")
	}
	if appCfg.ExportRateLimit > 0 && appCfg.ExportRateWindow <= 0 {
		return fmt.Errorf("export_rate_window must be positive when export_rate_limit is set")
	}
	return nil
}
