package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func TestNewSession(t *testing.T) {
	sess, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if len(sess.Verifier) != CodeVerifierLength {
		t.Errorf("Verifier length = %d, want %d", len(sess.Verifier), CodeVerifierLength)
	}
	if len(sess.State) != StateLength {
		t.Errorf("State length = %d, want %d", len(sess.State), StateLength)
	}

	// The challenge must be the raw-url-base64 SHA256 of the verifier.
	expectedHash := sha256.Sum256([]byte(sess.Verifier))
	expectedChallenge := base64.RawURLEncoding.EncodeToString(expectedHash[:])
	if sess.Challenge != expectedChallenge {
		t.Errorf("Challenge = %q, want %q", sess.Challenge, expectedChallenge)
	}

	// Two sessions must never share a verifier or state nonce.
	sess2, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession() second call error = %v", err)
	}
	if sess.Verifier == sess2.Verifier {
		t.Error("Two sessions have same verifier, expected unique")
	}
	if sess.State == sess2.State {
		t.Error("Two sessions have same state, expected unique")
	}
}

func TestRandomString(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"short", 16},
		{"medium", 64},
		{"long", 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := randomString(tt.length)
			if err != nil {
				t.Fatalf("randomString(%d) error = %v", tt.length, err)
			}
			if len(s) != tt.length {
				t.Errorf("length = %d, want %d", len(s), tt.length)
			}
			for _, c := range s {
				if !isURLSafeChar(c) {
					t.Errorf("invalid character %q in random string", c)
				}
			}
		})
	}
}

func isURLSafeChar(c rune) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_'
}
