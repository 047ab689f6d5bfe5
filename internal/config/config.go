// Package config loads the dashboard configuration from an optional YAML
// file with sane defaults for local development.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the admin TUI configuration.
type Config struct {
	// APIBaseURL is the backend REST root, including the /api suffix.
	APIBaseURL string `yaml:"api_base_url"`
	// SocketURL is the realtime endpoint. Empty means derive it from
	// APIBaseURL by stripping the API path suffix.
	SocketURL string `yaml:"socket_url"`
	// SessionFile overrides the persisted session location.
	SessionFile string `yaml:"session_file"`
	// LogFile is where the TUI writes its log; stdout belongs to the UI.
	LogFile string `yaml:"log_file"`
}

// Load reads the config at path. A missing file yields the defaults; a
// present but malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{
		APIBaseURL: "http://127.0.0.1:5000/api",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveSocketURL returns the configured socket URL, deriving it from the
// API base URL when unset.
func (c *Config) ResolveSocketURL() string {
	if c.SocketURL != "" {
		return c.SocketURL
	}
	return DeriveSocketURL(c.APIBaseURL)
}

// DeriveSocketURL converts an API base URL into the realtime endpoint:
// the /api path suffix is stripped, http(s) becomes ws(s), and the /ws
// path is appended. e.g. https://host/api → wss://host/ws
func DeriveSocketURL(apiBase string) string {
	u, err := url.Parse(apiBase)
	if err != nil {
		return "ws://127.0.0.1:5000/ws"
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), "/api")
	u.Path += "/ws"
	return u.String()
}
