package config

import (
	"flag"
	"os"
	"time"

	"github.com/gymnastic-app/gymcli/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the API (default from Config)
//	-d string   session database path
//	-t int      request timeout in seconds
//	-i int      session watch interval in seconds
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the Gymnastic API")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "path of the local session database")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	watchInterval := fs.Int("i", int(cfg.SessionWatchInterval.Seconds()), "session watch interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.SessionWatchInterval = time.Duration(*watchInterval) * time.Second
}
