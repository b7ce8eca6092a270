package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first, if present; real environment
// variables win over it (godotenv.Load never overrides existing vars).
//
// Variables:
//
//	GYMCLI_BASE_URL        — API base URL
//	GYMCLI_REQUEST_TIMEOUT — request ceiling, Go duration syntax ("15s")
//	GYMCLI_SESSION_DB      — session database path
//	GYMCLI_WATCH_INTERVAL  — session watch interval, Go duration syntax
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("GYMCLI_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("GYMCLI_SESSION_DB"); v != "" {
		cfg.SessionDBPath = v
	}
	if v := os.Getenv("GYMCLI_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("GYMCLI_WATCH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SessionWatchInterval = d
		}
	}
}
