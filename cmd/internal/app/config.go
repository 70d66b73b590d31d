package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
// Token and cookie secrets are loaded by their own packages; this struct
// covers the server, database and logging surface.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string // "json" (default) or "pretty"

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	DBMigrate   bool

	// If true, /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("TASKDECK_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("TASKDECK_LOG_LEVEL", "info"),
		LogFormat: EnvString("TASKDECK_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("TASKDECK_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("TASKDECK_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("TASKDECK_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("TASKDECK_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("TASKDECK_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("TASKDECK_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("TASKDECK_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("TASKDECK_DB_MIN_CONNS", 0),
		DBMigrate:   EnvBool("TASKDECK_DB_MIGRATE", true),

		ReadinessRequireDB: EnvBool("TASKDECK_READINESS_REQUIRE_DB", false),
	}
}
