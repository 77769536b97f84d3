package errors

import (
	"fmt"
	"testing"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool // whether a suggestion should be returned
	}{
		{"nil", nil, false},
		{"unauthorized", ErrUnauthorized, true},
		{"state mismatch", ErrStateMismatch, true},
		{"wrapped state mismatch", fmt.Errorf("login: %w", ErrStateMismatch), true},
		{"missing credential", ErrMissingCredential, true},
		{"no active device", ErrNoActiveDevice, true},
		{"rate limited", ErrRateLimited, true},
		{"unknown", fmt.Errorf("something odd"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSuggestion(tt.err)
			if (got != "") != tt.want {
				t.Errorf("GetSuggestion(%v) = %q, want suggestion=%v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithSuggestion(t *testing.T) {
	base := fmt.Errorf("boom")
	err := WithSuggestion(base, "try turning it off and on")

	if got := GetSuggestion(err); got != "try turning it off and on" {
		t.Errorf("GetSuggestion() = %q, want custom suggestion", got)
	}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", err.Error(), "boom")
	}
}

func TestIsAuthError(t *testing.T) {
	if !IsAuthError(fmt.Errorf("exchange: %w", ErrExchangeFailed)) {
		t.Error("IsAuthError() = false for wrapped ErrExchangeFailed")
	}
	if IsAuthError(ErrUnauthorized) {
		t.Error("IsAuthError() = true for ErrUnauthorized")
	}
}

func TestFormat(t *testing.T) {
	out := Format(ErrAuthTimeout)
	if out == "" {
		t.Fatal("Format() returned empty string")
	}
	if want := "Error: " + ErrAuthTimeout.Error(); len(out) < len(want) {
		t.Errorf("Format() = %q, want prefix %q", out, want)
	}
}
