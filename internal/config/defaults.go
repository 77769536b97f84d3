package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURI: "http://127.0.0.1:8888/callback",
		},
		Tail: TailConfig{
			Interval: 1000,
		},
		TUI: TUIConfig{
			RefreshInterval: 1000,
			AuthTimeout:     120,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = d.Spotify.RedirectURI
	}
	if c.Tail.Interval == 0 {
		c.Tail.Interval = d.Tail.Interval
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}
	if c.TUI.AuthTimeout == 0 {
		c.TUI.AuthTimeout = d.TUI.AuthTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
