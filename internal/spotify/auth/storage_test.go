package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func tempStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "token.json"))
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}
	return s
}

func TestStorageSaveLoad(t *testing.T) {
	s := tempStorage(t)

	saved := &Token{
		AccessToken:  "access",
		TokenType:    "Bearer",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
	}
	if err := s.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Token file must be owner-only.
	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file permissions = %o, want 0600", perm)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil, want token")
	}
	if loaded.AccessToken != saved.AccessToken {
		t.Errorf("AccessToken = %q, want %q", loaded.AccessToken, saved.AccessToken)
	}
	if loaded.RefreshToken != saved.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", loaded.RefreshToken, saved.RefreshToken)
	}
	if !loaded.ExpiresAt.Equal(saved.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", loaded.ExpiresAt, saved.ExpiresAt)
	}
}

func TestStorageLoadAbsent(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, s *Storage)
	}{
		{
			"missing file",
			func(t *testing.T, s *Storage) {},
		},
		{
			"malformed json",
			func(t *testing.T, s *Storage) {
				if err := os.WriteFile(s.Path(), []byte("{not json"), 0600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			"empty access token",
			func(t *testing.T, s *Storage) {
				if err := s.Save(&Token{ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			"expired without refresh token",
			func(t *testing.T, s *Storage) {
				if err := s.Save(&Token{
					AccessToken: "stale",
					ExpiresAt:   time.Now().Add(-time.Hour),
				}); err != nil {
					t.Fatal(err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tempStorage(t)
			tt.setup(t, s)

			token, err := s.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if token != nil {
				t.Errorf("Load() = %+v, want nil", token)
			}
		})
	}
}

func TestStorageLoadExpiredWithRefresh(t *testing.T) {
	s := tempStorage(t)

	// An expired token with a refresh token is still usable and must load.
	if err := s.Save(&Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	token, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if token == nil {
		t.Fatal("Load() = nil, want token with refresh token")
	}
	if token.RefreshToken != "refresh" {
		t.Errorf("RefreshToken = %q, want %q", token.RefreshToken, "refresh")
	}
}

func TestStorageDelete(t *testing.T) {
	s := tempStorage(t)

	if err := s.Save(&Token{AccessToken: "a", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if !s.Exists() {
		t.Fatal("Exists() = false after Save()")
	}

	if err := s.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if s.Exists() {
		t.Error("Exists() = true after Delete()")
	}

	// Deleting an already-gone file is not an error.
	if err := s.Delete(); err != nil {
		t.Errorf("Delete() second call error = %v", err)
	}
}
