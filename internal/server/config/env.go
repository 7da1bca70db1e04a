package config

import "os"

// parseEnv overlays Config with values from OPSDECK_* environment
// variables. Unset or empty variables leave the current value intact.
// Token lifetimes are duration strings like "1h".
func parseEnv(cfg *Config) {
	if v := os.Getenv("OPSDECK_BIND_ADDR"); v != "" {
		cfg.BindAddr = v
	}
	if v := os.Getenv("OPSDECK_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("OPSDECK_SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}
	if v := os.Getenv("OPSDECK_ACCESS_TOKEN_TTL"); v != "" {
		cfg.AccessTokenTTL = mustParseDuration(v)
	}
	if v := os.Getenv("OPSDECK_RESET_TOKEN_TTL"); v != "" {
		cfg.ResetTokenTTL = mustParseDuration(v)
	}
	if v := os.Getenv("OPSDECK_SERVER_HOST"); v != "" {
		cfg.ServerHost = v
	}
	if v := os.Getenv("OPSDECK_FIRST_SUPERUSER_EMAIL"); v != "" {
		cfg.FirstSuperuserEmail = v
	}
	if v := os.Getenv("OPSDECK_FIRST_SUPERUSER_PASSWORD"); v != "" {
		cfg.FirstSuperuserPassword = v
	}
}
