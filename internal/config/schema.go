package config

// Config is the root configuration structure.
type Config struct {
	Spotify  SpotifyConfig  `toml:"spotify"`
	Defaults DefaultsConfig `toml:"defaults"`
	Tail     TailConfig     `toml:"tail"`
	TUI      TUIConfig      `toml:"tui"`
	Log      LogConfig      `toml:"log"`
}

// SpotifyConfig holds Spotify API settings.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// DefaultsConfig holds default playback settings.
type DefaultsConfig struct {
	Device string `toml:"device"`
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Interval int `toml:"interval"` // milliseconds
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	RefreshInterval int `toml:"refresh_interval"` // milliseconds
	AuthTimeout     int `toml:"auth_timeout"`     // seconds to wait for the OAuth redirect
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
