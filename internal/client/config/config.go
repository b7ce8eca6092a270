package config

import "time"

// Config holds runtime settings for the gymcli client.
//
// Fields:
//   - BaseURL: root URL of the Gymnastic REST API.
//   - RequestTimeout: ceiling applied to every API request.
//   - SessionDBPath: path of the local SQLite session database.
//   - SessionWatchInterval: how often the session watcher re-reads the
//     persisted token to observe external logouts and expiry.
type Config struct {
	BaseURL              string
	RequestTimeout       time.Duration
	SessionDBPath        string
	SessionWatchInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:5000"
	c.RequestTimeout = 15 * time.Second
	c.SessionDBPath = "session.db"
	c.SessionWatchInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including an optional .env file), a JSON file and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
