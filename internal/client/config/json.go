package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/gymnastic-app/gymcli/internal/flagx"
	"github.com/gymnastic-app/gymcli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds.
type JsonConfig struct {
	BaseURL              string         `json:"base_url"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	SessionDBPath        string         `json:"session_db_path"`
	SessionWatchInterval timex.Duration `json:"session_watch_interval"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flags. When no file is named the function is a no-op; a
// named but unreadable file panics, since running with half a config is
// worse than not starting.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.SessionWatchInterval.Duration != 0 {
		cfg.SessionWatchInterval = time.Duration(jc.SessionWatchInterval.Duration)
	}
}
