// Package config loads runtime configuration for the gymcli client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, with an optional .env file (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the API
//	-d string   session database path
//	-t int      request timeout (seconds)
//	-i int      session watch interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be
// either strings like "3s" or integer nanoseconds:
//
//	{
//	  "base_url": "http://localhost:5000",
//	  "request_timeout": "15s",
//	  "session_db_path": "session.db",
//	  "session_watch_interval": "3s"
//	}
package config
