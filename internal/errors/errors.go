package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Authentication flow errors.
var (
	ErrStateMismatch  = errors.New("state mismatch in authorization callback")
	ErrListenerBind   = errors.New("failed to bind callback listener")
	ErrExchangeFailed = errors.New("token exchange failed")
	ErrAuthTimeout    = errors.New("authentication timed out")
)

// Remote API errors.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrRateLimited      = errors.New("rate limited")
	ErrNetwork          = errors.New("network error")
	ErrNoActiveDevice   = errors.New("no active device")
	ErrPremiumRequired  = errors.New("spotify premium required")
)

// Configuration errors.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// StrumError wraps an error with a user-friendly suggestion.
type StrumError struct {
	Err        error
	Suggestion string
}

func (e *StrumError) Error() string {
	return e.Err.Error()
}

func (e *StrumError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &StrumError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var strumErr *StrumError
	if errors.As(err, &strumErr) && strumErr.Suggestion != "" {
		return strumErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, ErrMissingCredential):
		return "Set SPOTIFY_CLIENT_ID (and optionally SPOTIFY_CLIENT_SECRET), or add spotify.client_id to ~/.strumrc"

	case errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrUnauthorized) ||
		strings.Contains(errStr, "invalid access token") || strings.Contains(errStr, "token expired"):
		return "Run 'strum auth login' to authenticate with Spotify"

	case errors.Is(err, ErrStateMismatch):
		return "The authorization response did not come from this login attempt. Run 'strum auth login' again"

	case errors.Is(err, ErrListenerBind):
		return "Another process is using the callback port. Close it or change spotify.redirect_uri"

	case errors.Is(err, ErrAuthTimeout):
		return "The login was not completed in time. Run 'strum auth login' and finish the browser prompt"

	case errors.Is(err, ErrNoActiveDevice) || strings.Contains(errStr, "no active device"):
		return "Open Spotify on a device and start playing, then try again"

	case errors.Is(err, ErrPremiumRequired) || strings.Contains(errStr, "premium required") ||
		strings.Contains(errStr, "restricted device"):
		return "This feature requires Spotify Premium"

	case errors.Is(err, ErrRateLimited) || strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429"):
		return "Too many requests. Wait a moment and try again"

	case errors.Is(err, ErrNetwork) || strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "timeout") || strings.Contains(errStr, "connection refused"):
		return "Check your internet connection and try again"

	case strings.Contains(errStr, "500") || strings.Contains(errStr, "server error"):
		return "Spotify is having issues. Try again in a moment"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// IsAuthError reports whether err belongs to the authentication flow taxonomy.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrStateMismatch) ||
		errors.Is(err, ErrListenerBind) ||
		errors.Is(err, ErrExchangeFailed) ||
		errors.Is(err, ErrAuthTimeout)
}
