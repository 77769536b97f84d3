package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	strumerrors "strum/internal/errors"
	"strum/internal/spotify/auth"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		params map[string]string
		want   string
	}{
		{"no params", "/me", nil, "/me"},
		{"empty params", "/me", map[string]string{}, "/me"},
		{"single param", "/search", map[string]string{"q": "test"}, "/search?q=test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildURL(tt.path, tt.params); got != tt.want {
				t.Errorf("BuildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

// newTestClient returns a client pointed at a test API server, holding a
// token that expires an hour out.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	api := httptest.NewServer(handler)
	t.Cleanup(api.Close)

	storage, err := auth.NewStorage(filepath.Join(t.TempDir(), "token.json"))
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}

	c := New(auth.NewConfig("test_client"), storage, WithBaseURL(api.URL))
	if err := c.SetToken(&auth.Token{
		AccessToken:  "valid_token",
		RefreshToken: "refresh_token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	return c
}

// withRefreshServer points the token endpoint at a server that hands out
// refreshed tokens, counting calls.
func withRefreshServer(t *testing.T, calls *int) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "refreshed_token",
			"token_type":    "Bearer",
			"expires_in":    3600,
			"refresh_token": "refresh_token",
		})
	}))
	orig := auth.TokenURL
	auth.TokenURL = server.URL
	t.Cleanup(func() {
		auth.TokenURL = orig
		server.Close()
	})
}

func TestRequestBearerHeader(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(User{ID: "u1"})
	}))

	user, err := c.GetCurrentUser(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if gotAuth != "Bearer valid_token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer valid_token")
	}
	if user.ID != "u1" {
		t.Errorf("user ID = %q, want %q", user.ID, "u1")
	}
}

func TestRequestRefreshesOnceOn401(t *testing.T) {
	refreshCalls := 0
	withRefreshServer(t, &refreshCalls)

	apiCalls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		if r.Header.Get("Authorization") != "Bearer refreshed_token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(User{ID: "u1"})
	}))

	user, err := c.GetCurrentUser(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user ID = %q, want %q", user.ID, "u1")
	}
	if refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", refreshCalls)
	}
	if apiCalls != 2 {
		t.Errorf("api calls = %d, want 2", apiCalls)
	}
}

func TestRequestUnauthorizedAfterRefresh(t *testing.T) {
	refreshCalls := 0
	withRefreshServer(t, &refreshCalls)

	apiCalls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.GetCurrentUser(context.Background())
	if !errors.Is(err, strumerrors.ErrUnauthorized) {
		t.Fatalf("GetCurrentUser() error = %v, want ErrUnauthorized", err)
	}

	// Exactly one forced refresh and one retry; the second 401 is final.
	if refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", refreshCalls)
	}
	if apiCalls != 2 {
		t.Errorf("api calls = %d, want 2", apiCalls)
	}
}

func TestRequestRateLimited(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.GetCurrentUser(context.Background())
	if !errors.Is(err, strumerrors.ErrRateLimited) {
		t.Fatalf("GetCurrentUser() error = %v, want ErrRateLimited", err)
	}
	if !strings.Contains(err.Error(), "5") {
		t.Errorf("error %q does not carry the Retry-After value", err)
	}
}

func TestRequestNotFoundMapping(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"status":404,"message":"Not found"}}`))
	}))

	// Player endpoints report a missing player as no active device.
	err := c.Pause(context.Background(), "")
	if !errors.Is(err, strumerrors.ErrNoActiveDevice) {
		t.Errorf("Pause() error = %v, want ErrNoActiveDevice", err)
	}

	// Resource endpoints report a plain not-found.
	_, _, err = c.GetPlaylistTracks(context.Background(), "missing", 50, 0)
	if !errors.Is(err, strumerrors.ErrNotFound) {
		t.Errorf("GetPlaylistTracks() error = %v, want ErrNotFound", err)
	}
}

func TestGetPlaybackStateNoContent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	state, err := c.GetPlaybackState(context.Background())
	if err != nil {
		t.Fatalf("GetPlaybackState() error = %v", err)
	}
	if state != nil {
		t.Errorf("GetPlaybackState() = %+v, want nil for no active playback", state)
	}
}

func TestAccessTokenRefreshesInsideMargin(t *testing.T) {
	refreshCalls := 0
	withRefreshServer(t, &refreshCalls)

	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(User{ID: "u1"})
	}))

	// A token inside the expiry margin must be refreshed before use.
	if err := c.SetToken(&auth.Token{
		AccessToken:  "nearly_expired",
		RefreshToken: "refresh_token",
		ExpiresAt:    time.Now().Add(10 * time.Second),
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := c.GetCurrentUser(context.Background()); err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", refreshCalls)
	}
	if gotAuth != "Bearer refreshed_token" {
		t.Errorf("Authorization = %q, want refreshed token", gotAuth)
	}
}

func TestRequestNoToken(t *testing.T) {
	storage, err := auth.NewStorage(filepath.Join(t.TempDir(), "token.json"))
	if err != nil {
		t.Fatal(err)
	}
	c := New(auth.NewConfig("test_client"), storage)

	_, err = c.GetCurrentUser(context.Background())
	if !errors.Is(err, strumerrors.ErrUnauthorized) {
		t.Errorf("GetCurrentUser() without token error = %v, want ErrUnauthorized", err)
	}
}
