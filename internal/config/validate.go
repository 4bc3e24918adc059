package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.API.validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Push.validate(); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func (a *APIConfig) validate() error {
	if err := checkURL(a.BaseURL, "http", "https"); err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if err := checkURL(a.BackendURL, "http", "https"); err != nil {
		return fmt.Errorf("backend_url: %w", err)
	}
	a.BaseURL = strings.TrimRight(a.BaseURL, "/")
	a.BackendURL = strings.TrimRight(a.BackendURL, "/")

	if a.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", a.Timeout)
	}
	if a.ReadRetryDelay < 0 {
		return fmt.Errorf("read_retry_delay must be >= 0 (got %s)", a.ReadRetryDelay)
	}
	return nil
}

func (p *PushConfig) validate() error {
	if err := checkURL(p.URL, "ws", "wss", "http", "https"); err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if p.ReadLimit <= 0 {
		return fmt.Errorf("read_limit must be > 0 (got %d)", p.ReadLimit)
	}
	if p.DialTimeout <= 0 {
		return fmt.Errorf("dial_timeout must be > 0 (got %s)", p.DialTimeout)
	}
	if p.BufferSize < 1 {
		return fmt.Errorf("buffer_size must be >= 1 (got %d)", p.BufferSize)
	}
	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", l.Format)
	}
	return nil
}

func checkURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !slices.Contains(schemes, u.Scheme) || u.Host == "" {
		return fmt.Errorf("must be an absolute %s URL (got %q)", strings.Join(schemes, "/"), raw)
	}
	return nil
}
