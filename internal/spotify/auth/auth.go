// Package auth implements the Spotify OAuth authorization-code flow with
// PKCE: building the authorize URL, capturing the redirect on a local HTTP
// listener, exchanging the code for tokens, and persisting them.
package auth

import (
	"net/url"
	"strconv"
	"strings"
)

// Spotify OAuth endpoints. Variables so tests can point them at a local
// server.
var (
	AuthorizeURL = "https://accounts.spotify.com/authorize"
	TokenURL     = "https://accounts.spotify.com/api/token"
)

// DefaultRedirectURI is the default callback URI for the local listener.
const DefaultRedirectURI = "http://127.0.0.1:8888/callback"

// DefaultScopes are the Spotify scopes strum needs: playlist browsing,
// playback state, and playback control.
var DefaultScopes = []string{
	"playlist-read-private",
	"playlist-read-collaborative",
	"user-library-read",
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
}

// Config holds the OAuth client configuration.
type Config struct {
	ClientID     string
	ClientSecret string // optional under PKCE
	RedirectURI  string
	Scopes       []string
}

// NewConfig creates an OAuth configuration with defaults.
func NewConfig(clientID string) *Config {
	return &Config{
		ClientID:    clientID,
		RedirectURI: DefaultRedirectURI,
		Scopes:      DefaultScopes,
	}
}

// BuildAuthorizeURL constructs the authorization URL carrying the session's
// PKCE challenge and state nonce.
func (c *Config) BuildAuthorizeURL(sess *Session) string {
	u, _ := url.Parse(AuthorizeURL)

	q := u.Query()
	q.Set("client_id", c.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.RedirectURI)
	q.Set("code_challenge_method", "S256")
	q.Set("code_challenge", sess.Challenge)
	q.Set("state", sess.State)
	if len(c.Scopes) > 0 {
		q.Set("scope", strings.Join(c.Scopes, " "))
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// RedirectPort returns the TCP port of the configured redirect URI.
func (c *Config) RedirectPort() int {
	u, err := url.Parse(c.RedirectURI)
	if err != nil {
		return 0
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		return port
	}
	if u.Scheme == "https" {
		return 443
	}
	return 80
}
