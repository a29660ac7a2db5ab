package cliconfig

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/beercompass/barfetch/pkg/overpass"
	"github.com/beercompass/barfetch/pkg/region"
	"github.com/beercompass/barfetch/pkg/store"
)

// Config holds CLI configuration for barfetch.
type Config struct {
	OverpassURL string
	UserAgent   string

	HTTPTimeout      time.Duration
	QueryTimeout     time.Duration
	MaxRetries       int
	RequestDelay     time.Duration
	GatewayBackoff   time.Duration
	TimeoutBackoff   time.Duration
	RateLimitBackoff time.Duration

	DataDir  string
	Output   string
	Method   string
	City     string
	Resume   bool
	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	policy := overpass.DefaultRetryPolicy()
	return Config{
		OverpassURL:      overpass.DefaultURL,
		UserAgent:        overpass.DefaultUserAgent,
		HTTPTimeout:      overpass.DefaultRequestTimeout,
		QueryTimeout:     overpass.DefaultQueryTimeout,
		MaxRetries:       policy.MaxAttempts,
		RequestDelay:     3 * time.Second,
		GatewayBackoff:   policy.GatewayStep,
		TimeoutBackoff:   policy.TimeoutStep,
		RateLimitBackoff: policy.RateLimitStep,
		DataDir:          "data",
		Output:           "", // Derived from DataDir during Validate
		Method:           region.SetBlocks,
		Resume:           true,
		LogLevel:         "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.OverpassURL == "" {
		return fmt.Errorf("overpass-url is required")
	}
	c.OverpassURL = strings.TrimRight(c.OverpassURL, "/")

	if c.UserAgent == "" {
		c.UserAgent = overpass.DefaultUserAgent
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("retries must be positive")
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("delay must not be negative")
	}

	if c.City != "" {
		if _, err := region.City(c.City); err != nil {
			return fmt.Errorf("city: %w (known: %s)", err, strings.Join(region.CityKeys(), ", "))
		}
	} else if _, err := region.Set(c.Method); err != nil {
		return fmt.Errorf("method: %w (known: %s)", err, strings.Join(region.SetNames(), ", "))
	}

	if c.DataDir == "" {
		return fmt.Errorf("data-dir is required")
	}
	if c.Output == "" {
		c.Output = filepath.Join(c.DataDir, store.DefaultDatasetName)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}

	return nil
}

// RetryPolicy builds the Overpass retry policy from the configuration.
func (c Config) RetryPolicy() overpass.RetryPolicy {
	p := overpass.DefaultRetryPolicy()
	p.MaxAttempts = c.MaxRetries
	p.GatewayStep = c.GatewayBackoff
	p.TimeoutStep = c.TimeoutBackoff
	p.RateLimitStep = c.RateLimitBackoff
	return p
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
