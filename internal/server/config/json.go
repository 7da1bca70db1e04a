package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/opsdeck/opsdeck/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Token
// lifetimes are given as duration strings like "1h" or "192h".
type JsonConfig struct {
	BindAddr               string `json:"bind_addr"`
	DatabaseDSN            string `json:"database_dsn"`
	SecretKey              string `json:"secret_key"`
	AccessTokenTTL         string `json:"access_token_ttl"`
	ResetTokenTTL          string `json:"reset_token_ttl"`
	ServerHost             string `json:"server_host"`
	FirstSuperuserEmail    string `json:"first_superuser_email"`
	FirstSuperuserPassword string `json:"first_superuser_password"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// is given via -c or -config. If no path is provided, nothing is loaded.
// Read or unmarshal errors panic; intended usage is
// defaults -> parseJson -> parseEnv -> parseFlags, where later stages
// override earlier ones.
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

	if jc.BindAddr != "" {
		cfg.BindAddr = jc.BindAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.AccessTokenTTL != "" {
		cfg.AccessTokenTTL = mustParseDuration(jc.AccessTokenTTL)
	}
	if jc.ResetTokenTTL != "" {
		cfg.ResetTokenTTL = mustParseDuration(jc.ResetTokenTTL)
	}
	if jc.ServerHost != "" {
		cfg.ServerHost = jc.ServerHost
	}
	if jc.FirstSuperuserEmail != "" {
		cfg.FirstSuperuserEmail = jc.FirstSuperuserEmail
	}
	if jc.FirstSuperuserPassword != "" {
		cfg.FirstSuperuserPassword = jc.FirstSuperuserPassword
	}
}

func mustParseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}
