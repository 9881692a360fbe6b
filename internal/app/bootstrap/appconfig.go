// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS, body limits); AppConfig is everything specific to
// AlumConnect. Values come from config files, environment variables
// (ALUMCONNECT_*), or command-line flags, loaded in LoadConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration. The identity provider issues
	// credentials signed with the same session key.
	SessionKey    string // Secret key for signing session cookies and bearer tokens
	SessionName   string // Cookie name for sessions (default: alumconnect-session)
	SessionDomain string // Cookie domain (blank means current host)
}
