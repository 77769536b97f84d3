package config

import (
	"errors"
	"fmt"
	"net/url"

	strumerrors "strum/internal/errors"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Spotify.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("spotify: %w", err))
	}
	if err := c.Tail.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tail: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// RequireCredentials verifies that a client ID is configured. The client
// secret is optional: the PKCE flow does not need one.
func (c *Config) RequireCredentials() error {
	if c.Spotify.ClientID == "" {
		return fmt.Errorf("%w: spotify client ID", strumerrors.ErrMissingCredential)
	}
	return nil
}

// Validate checks SpotifyConfig for errors.
func (c *SpotifyConfig) Validate() error {
	if c.RedirectURI != "" {
		u, err := url.Parse(c.RedirectURI)
		if err != nil {
			return fmt.Errorf("invalid redirect_uri: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid redirect_uri scheme: %s", u.Scheme)
		}
	}
	return nil
}

// Validate checks TailConfig for errors.
func (c *TailConfig) Validate() error {
	if c.Interval < 0 {
		return errors.New("interval must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	if c.AuthTimeout < 0 {
		return errors.New("auth_timeout must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level: %s", c.Level)
	}
}
