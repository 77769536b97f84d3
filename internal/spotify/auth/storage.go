package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultTokenFileName is the default name for the token file.
const DefaultTokenFileName = "token.json"

// Storage persists the token set to disk. It is the sole owner of the stored
// record: the auth flow writes the initial token, refresh rotates it, logout
// deletes it.
type Storage struct {
	path string
}

// NewStorage creates token storage at the specified path. If path is empty,
// the default location ($XDG_CONFIG_HOME/strum/token.json) is used.
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		path = filepath.Join(xdg.ConfigHome, "strum", DefaultTokenFileName)
	}
	return &Storage{path: path}, nil
}

// Save persists a token to disk with owner-only permissions.
func (s *Storage) Save(token *Token) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// Load reads a token from disk. A missing file, a malformed record, or an
// expired token with no refresh token all read as absent (nil, nil): any of
// those means a fresh login is required, not an error.
func (s *Storage) Load() (*Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, nil
	}
	if token.AccessToken == "" {
		return nil, nil
	}
	if token.IsExpired() && token.RefreshToken == "" {
		return nil, nil
	}

	return &token, nil
}

// Delete removes the stored token.
func (s *Storage) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// Exists returns true if a token file exists.
func (s *Storage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the path to the token file.
func (s *Storage) Path() string {
	return s.path
}
