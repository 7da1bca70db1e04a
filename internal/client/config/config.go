// Package config handles configuration for the admin console client,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the opsdeck console.
//
// Fields:
//   - ServerURL: base URL of the backend HTTP API.
//   - TokenFile: path of the file holding the bearer token between runs.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL      string
	TokenFile      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8000"
	c.TokenFile = defaultTokenFile()
	c.RequestTimeout = 10 * time.Second
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".opsdeck_token"
	}
	return filepath.Join(home, ".opsdeck", "token")
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
