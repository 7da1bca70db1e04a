package config

import (
	"flag"
	"os"
	"time"

	"github.com/opsdeck/opsdeck/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-u string   base URL of the backend server
//	-f string   token file path
//	-t int      request timeout in seconds
//
// The function filters os.Args to only the flags it owns, using
// flagx.FilterArgs, to avoid interfering with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-f", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "u", cfg.ServerURL, "base URL of the backend server")
	fs.StringVar(&cfg.TokenFile, "f", cfg.TokenFile, "token file path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
