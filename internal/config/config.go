// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Labels   LabelsConfig
	Import   ImportConfig
	Database DatabaseConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// StorageConfig locates the files backing the record and mapping stores.
type StorageConfig struct {
	// DataPath is the canonical record CSV
	DataPath string `env:"DATA_PATH" default:"app/data/datos_hoja.csv"`

	// MappingPath is the product mapping JSON
	MappingPath string `env:"MAPPING_PATH" default:"app/data/product_mapping.json"`
}

// LabelsConfig holds label rendering settings.
type LabelsConfig struct {
	// StampDirs are searched in order for the postage stamp images.
	// Empty means the built-in candidate list.
	StampDirs []string `env:"STAMP_DIRS"`

	// Sender is the return-address line printed on every address label
	Sender string `env:"LABEL_SENDER"`

	// ORBaseID is the first tracking id of a barcode sheet (default: 921)
	ORBaseID int `env:"OR_BASE_ID" default:"921"`

	// CacheTTL is how long a rendered sheet is reused (default: 5m)
	CacheTTL time.Duration `env:"RENDER_CACHE_TTL" default:"5m"`
}

// ImportConfig holds record import settings.
type ImportConfig struct {
	// MaxFileSize caps uploads and sheet downloads, e.g. "10MiB" (default: 10MiB)
	MaxFileSize ByteSize `env:"IMPORT_MAX_FILE_SIZE" default:"10MiB"`

	// MaxConcurrent bounds parallel imports and renders (default: 4)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for a free slot (default: 30s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"30s"`

	// FetchTimeout bounds a spreadsheet download (default: 30s)
	FetchTimeout time.Duration `env:"IMPORT_FETCH_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds the optional import history backends. With neither
// URL nor SQLitePath set, history is kept in memory.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// SQLitePath is a local history database, used when URL is empty
	SQLitePath string `env:"HISTORY_SQLITE_PATH"`

	// MaxConns is the maximum number of connections in the pool (default: 5)
	MaxConns int `env:"DB_MAX_CONNS" default:"5"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ByteSize is a size in bytes read from human-friendly values such as
// "512KB" or "10MiB".
type ByteSize int64

func (b ByteSize) String() string {
	return humanize.IBytes(uint64(b))
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// HistoryBackend names the import history backend the settings select.
func (c *DatabaseConfig) HistoryBackend() string {
	switch {
	case c.URL != "":
		return "postgres"
	case c.SQLitePath != "":
		return "sqlite"
	default:
		return "memory"
	}
}
