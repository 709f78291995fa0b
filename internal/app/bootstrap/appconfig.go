// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers the framework settings (ports, TLS, logging,
// CORS, body limits). Everything specific to learnboard lives here and is
// passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session cookie issued by the sign-in service
	SessionKey    string        // Secret key shared with the sign-in service
	SessionName   string        // Cookie name (default: learnboard-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Handler timeouts (zero keeps the built-in default)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// ExportMaxRows caps rows per list sheet in the statistics workbook (0 = no cap).
	ExportMaxRows int

	// Per-user export throttle (0 = unlimited)
	ExportRateLimit  int
	ExportRateWindow time.Duration
}
