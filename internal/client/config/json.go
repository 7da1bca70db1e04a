package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/opsdeck/opsdeck/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. The timeout
// is given as a duration string like "10s".
type JsonConfig struct {
	ServerURL      string `json:"server_url"`
	TokenFile      string `json:"token_file"`
	RequestTimeout string `json:"request_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// is given via -c or -config. If no path is provided, nothing is loaded.
// Read or unmarshal errors panic; intended usage is
// defaults -> parseJson -> parseFlags, where later stages override earlier
// ones.
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

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.TokenFile != "" {
		cfg.TokenFile = jc.TokenFile
	}
	if jc.RequestTimeout != "" {
		d, err := time.ParseDuration(jc.RequestTimeout)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
}
