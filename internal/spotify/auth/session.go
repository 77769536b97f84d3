package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

const (
	// CodeVerifierLength is the length of the PKCE code verifier.
	// Spotify requires 43-128 characters; we use 64 for good entropy.
	CodeVerifierLength = 64

	// StateLength is the length of the state nonce for CSRF protection.
	StateLength = 32
)

// Session holds the ephemeral secrets of a single authorization attempt: the
// PKCE code verifier/challenge pair and the state nonce. A Session lives for
// one attempt and is discarded after success or timeout.
type Session struct {
	Verifier  string
	Challenge string
	State     string
}

// NewSession generates a fresh code verifier, challenge, and state nonce.
func NewSession() (*Session, error) {
	verifier, err := randomString(CodeVerifierLength)
	if err != nil {
		return nil, err
	}

	state, err := randomString(StateLength)
	if err != nil {
		return nil, err
	}

	return &Session{
		Verifier:  verifier,
		Challenge: challenge(verifier),
		State:     state,
	}, nil
}

// randomString creates a cryptographically secure random string using
// URL-safe base64 characters (A-Z, a-z, 0-9, -, _).
func randomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	// Encode to base64url (no padding) and trim to exact length
	encoded := base64.RawURLEncoding.EncodeToString(bytes)
	if len(encoded) > length {
		encoded = encoded[:length]
	}
	return encoded, nil
}

// challenge computes the S256 code challenge: base64url(sha256(verifier)).
func challenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
