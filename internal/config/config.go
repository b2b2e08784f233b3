// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: json or text.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RemoteURL is the web-app endpoint backing weights, registrations and finance.
	RemoteURL string `koanf:"remote_url"`

	// RemoteTimeout bounds every remote call.
	RemoteTimeout time.Duration `koanf:"remote_timeout"`

	// StatePath is the local state file. Empty keeps state in memory.
	StatePath string `koanf:"state_path"`

	// SessionTTL is how long a login stays valid.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// RefreshInterval schedules board refreshes. Zero refreshes only on demand.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// QueueSize bounds pending refresh requests.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize and DedupeTTL bound the weigh-in idempotency cache.
	DedupeSize int           `koanf:"dedupe_size"`
	DedupeTTL  time.Duration `koanf:"dedupe_ttl"`

	// TopLimit caps GET /leaderboard/top?limit.
	TopLimit int `koanf:"top_limit"`

	// Challenge names the challenge users register for.
	Challenge string `koanf:"challenge"`

	// Location is the IANA zone used for calendar days. Empty means local time.
	Location string `koanf:"location"`

	// YearQualifiedLabels adds the year to timeline labels.
	YearQualifiedLabels bool `koanf:"year_qualified_labels"`

	// CaseInsensitiveLookup matches participants regardless of case.
	CaseInsensitiveLookup bool `koanf:"case_insensitive_lookup"`

	// MealPlans adds sample meal plans to BMI guidance.
	MealPlans bool `koanf:"meal_plans"`

	// EnforceWeighInDay refuses weigh-ins outside the weigh-in weekday.
	EnforceWeighInDay bool `koanf:"enforce_weigh_in_day"`

	// CORSOrigins lists origins allowed to call the API and open the live feed.
	CORSOrigins []string `koanf:"cors_origins"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "json",
		Addr:              ":8080",
		RemoteTimeout:     15 * time.Second,
		StatePath:         "prochallenge-state.json",
		SessionTTL:        24 * time.Hour,
		RefreshInterval:   5 * time.Minute,
		QueueSize:         16,
		DedupeSize:        10_000,
		DedupeTTL:         7 * 24 * time.Hour,
		TopLimit:          100,
		Challenge:         "fitness",
		EnforceWeighInDay: true,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return invalid("addr must not be empty")
	case c.RemoteTimeout <= 0:
		return invalid("remote_timeout must be positive")
	case c.SessionTTL <= 0:
		return invalid("session_ttl must be positive")
	case c.RefreshInterval < 0:
		return invalid("refresh_interval must not be negative")
	case c.QueueSize < 1:
		return invalid("queue_size must be at least 1")
	case c.DedupeSize < 1:
		return invalid("dedupe_size must be at least 1")
	case c.DedupeTTL <= 0:
		return invalid("dedupe_ttl must be positive")
	case c.TopLimit < 1:
		return invalid("top_limit must be at least 1")
	case strings.TrimSpace(c.Challenge) == "":
		return invalid("challenge must not be empty")
	case c.ShutdownTimeout <= 0:
		return invalid("shutdown_timeout must be positive")
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return invalid(fmt.Sprintf("log_format %q is not json or text", c.LogFormat))
	}
	if err := c.validateRemoteURL(); err != nil {
		return err
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	return nil
}

// TimeLocation resolves Location.
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: location %q: %w", ErrInvalidConfig, c.Location, err)
	}
	return loc, nil
}

func (c *Config) validateRemoteURL() error {
	if c.RemoteURL == "" {
		return invalid("remote_url must be set")
	}
	u, err := url.Parse(c.RemoteURL)
	if err != nil {
		return fmt.Errorf("%w: remote_url: %w", ErrInvalidConfig, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("remote_url must be an absolute http(s) URL")
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
