package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDeriveSocketURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain api suffix", "http://127.0.0.1:5000/api", "ws://127.0.0.1:5000/ws"},
		{"trailing slash", "http://127.0.0.1:5000/api/", "ws://127.0.0.1:5000/ws"},
		{"https becomes wss", "https://api.example.com/api", "wss://api.example.com/ws"},
		{"no api suffix", "http://localhost:5000", "ws://localhost:5000/ws"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveSocketURL(tt.in)
			if got != tt.want {
				t.Errorf("DeriveSocketURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:5000/api" {
		t.Errorf("unexpected default base URL %q", cfg.APIBaseURL)
	}
	if got := cfg.ResolveSocketURL(); got != "ws://127.0.0.1:5000/ws" {
		t.Errorf("unexpected derived socket URL %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_base_url: https://admin.example.com/api\nsocket_url: wss://rt.example.com/ws\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://admin.example.com/api" {
		t.Errorf("base URL not applied: %q", cfg.APIBaseURL)
	}
	if got := cfg.ResolveSocketURL(); got != "wss://rt.example.com/ws" {
		t.Errorf("explicit socket URL should win, got %q", got)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_base_url: [broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed config")
	}
}
