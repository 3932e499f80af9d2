package config

import (
	"os"
	"strconv"
	"strings"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Addr      string // listen address
	DBURL     string // postgres:// URL, or a SQLite file path
	LogLevel  string
	LogPretty bool
}

// Load reads values from environment variables, with local-dev defaults:
// without DB_URL the service runs against a SQLite file next to the binary,
// mirroring the deployment split between a production Postgres and local use.
func Load() Config {
	cfg := Config{
		Addr:     ":8080",
		DBURL:    "incidents.db",
		LogLevel: "info",
	}

	if v := strings.TrimSpace(os.Getenv("ADDR")); v != "" {
		cfg.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("DB_URL")); v != "" {
		cfg.DBURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v, err := strconv.ParseBool(os.Getenv("LOG_PRETTY")); err == nil {
		cfg.LogPretty = v
	}

	return cfg
}
