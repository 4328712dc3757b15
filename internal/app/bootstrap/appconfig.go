// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig is where everything specific to ThreadHub lives: the MongoDB
// connection, pool sizing, and per-operation timeout overrides.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Per-operation timeout overrides. Zero means keep the default.
	DBTimeoutPing   time.Duration // Health checks and connectivity pings
	DBTimeoutShort  time.Duration // Single-document reads
	DBTimeoutMedium time.Duration // List queries and profile upserts
	DBTimeoutLong   time.Duration // Multi-collection mutations, cascading deletes
}
