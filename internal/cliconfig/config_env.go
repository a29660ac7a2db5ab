package cliconfig

import "os"

// EnvPrefix starts every environment variable barfetch reads.
const EnvPrefix = "BARFETCH_"

// ApplyEnvConfig applies configuration from environment variables (BARFETCH_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	s.setString("overpass-url", env("OVERPASS_URL"), &cfg.OverpassURL)
	s.setString("user-agent", env("USER_AGENT"), &cfg.UserAgent)
	s.setString("data-dir", env("DATA_DIR"), &cfg.DataDir)
	s.setString("output", env("OUTPUT"), &cfg.Output)
	s.setString("method", env("METHOD"), &cfg.Method)
	s.setString("city", env("CITY"), &cfg.City)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("timeout", env("HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("query-timeout", env("QUERY_TIMEOUT"), &cfg.QueryTimeout); err != nil {
		return err
	}
	if err := s.setDuration("delay", env("REQUEST_DELAY"), &cfg.RequestDelay); err != nil {
		return err
	}
	if err := s.setDuration("gateway-backoff", env("GATEWAY_BACKOFF"), &cfg.GatewayBackoff); err != nil {
		return err
	}
	if err := s.setDuration("timeout-backoff", env("TIMEOUT_BACKOFF"), &cfg.TimeoutBackoff); err != nil {
		return err
	}
	if err := s.setDuration("rate-limit-backoff", env("RATE_LIMIT_BACKOFF"), &cfg.RateLimitBackoff); err != nil {
		return err
	}

	if err := s.setIntFromString("retries", env("MAX_RETRIES"), &cfg.MaxRetries); err != nil {
		return err
	}

	s.setBoolFromString("resume", env("RESUME"), &cfg.Resume)

	return nil
}
