package config

import (
	"flag"
	"os"
	"time"

	"github.com/opsdeck/opsdeck/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      password reset token validity, minutes
//	-n string   public host used in password reset links
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.BindAddr, "a", config.BindAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenTTL := fs.Int("t", int(config.AccessTokenTTL.Minutes()), "access token validity (in minutes)")
	resetTokenTTL := fs.Int("r", int(config.ResetTokenTTL.Minutes()), "password reset token validity (in minutes)")

	fs.StringVar(&config.ServerHost, "n", config.ServerHost, "public host for password reset links")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenTTL = time.Duration(*accessTokenTTL) * time.Minute
	config.ResetTokenTTL = time.Duration(*resetTokenTTL) * time.Minute
}
