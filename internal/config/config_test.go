package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	strumerrors "strum/internal/errors"
)

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[spotify]
client_id = "abc123"
redirect_uri = "http://127.0.0.1:9999/callback"

[tui]
refresh_interval = 500

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Spotify.ClientID != "abc123" {
		t.Errorf("ClientID = %q, want %q", cfg.Spotify.ClientID, "abc123")
	}
	if cfg.Spotify.RedirectURI != "http://127.0.0.1:9999/callback" {
		t.Errorf("RedirectURI = %q", cfg.Spotify.RedirectURI)
	}
	if cfg.TUI.RefreshInterval != 500 {
		t.Errorf("RefreshInterval = %d, want 500", cfg.TUI.RefreshInterval)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	// Defaults fill unset fields
	if cfg.Tail.Interval != 1000 {
		t.Errorf("Tail.Interval = %d, want default 1000", cfg.Tail.Interval)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Spotify.RedirectURI == "" {
		t.Error("RedirectURI not defaulted")
	}
	if cfg.TUI.RefreshInterval != 1000 {
		t.Errorf("RefreshInterval = %d, want 1000", cfg.TUI.RefreshInterval)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")
	t.Setenv("STRUM_LOG_LEVEL", "warn")

	cfg := &Config{}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if cfg.Spotify.ClientID != "env_id" {
		t.Errorf("ClientID = %q, want env_id", cfg.Spotify.ClientID)
	}
	if cfg.Spotify.ClientSecret != "env_secret" {
		t.Errorf("ClientSecret = %q, want env_secret", cfg.Spotify.ClientSecret)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestRequireCredentials(t *testing.T) {
	cfg := Default()
	err := cfg.RequireCredentials()
	if !errors.Is(err, strumerrors.ErrMissingCredential) {
		t.Errorf("RequireCredentials() = %v, want ErrMissingCredential", err)
	}

	cfg.Spotify.ClientID = "abc"
	if err := cfg.RequireCredentials(); err != nil {
		t.Errorf("RequireCredentials() with ID = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad redirect scheme", func(c *Config) { c.Spotify.RedirectURI = "ftp://x" }, true},
		{"negative refresh", func(c *Config) { c.TUI.RefreshInterval = -1 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"negative tail interval", func(c *Config) { c.Tail.Interval = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
