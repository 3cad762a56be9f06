package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. Only the flags owned by
// this package are looked at (see flagx.FilterArgs). Invalid values panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-p", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the user API")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "session database path")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "user listing page size")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
	if cfg.PageSize < 1 {
		panic(fmt.Sprintf("page size must be positive, got %d", cfg.PageSize))
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
