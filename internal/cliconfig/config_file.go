package cliconfig

import (
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	OverpassURL      string `toml:"overpass_url"`
	UserAgent        string `toml:"user_agent"`
	HTTPTimeout      string `toml:"http_timeout"`
	QueryTimeout     string `toml:"query_timeout"`
	MaxRetries       int    `toml:"max_retries"`
	RequestDelay     string `toml:"request_delay"`
	GatewayBackoff   string `toml:"gateway_backoff"`
	TimeoutBackoff   string `toml:"timeout_backoff"`
	RateLimitBackoff string `toml:"rate_limit_backoff"`
	DataDir          string `toml:"data_dir"`
	Output           string `toml:"output"`
	Method           string `toml:"method"`
	City             string `toml:"city"`
	Resume           *bool  `toml:"resume"`
	LogLevel         string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.barfetch/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".barfetch", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("overpass-url", fc.OverpassURL, &cfg.OverpassURL)
	s.setString("user-agent", fc.UserAgent, &cfg.UserAgent)
	s.setString("data-dir", fc.DataDir, &cfg.DataDir)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("method", fc.Method, &cfg.Method)
	s.setString("city", fc.City, &cfg.City)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	durations := []struct {
		flag  string
		value string
		dst   *time.Duration
	}{
		{"timeout", fc.HTTPTimeout, &cfg.HTTPTimeout},
		{"query-timeout", fc.QueryTimeout, &cfg.QueryTimeout},
		{"delay", fc.RequestDelay, &cfg.RequestDelay},
		{"gateway-backoff", fc.GatewayBackoff, &cfg.GatewayBackoff},
		{"timeout-backoff", fc.TimeoutBackoff, &cfg.TimeoutBackoff},
		{"rate-limit-backoff", fc.RateLimitBackoff, &cfg.RateLimitBackoff},
	}
	for _, d := range durations {
		if err := s.setDuration(d.flag, d.value, d.dst); err != nil {
			return err
		}
	}

	s.setInt("retries", fc.MaxRetries, &cfg.MaxRetries)
	s.setBool("resume", fc.Resume, &cfg.Resume)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
