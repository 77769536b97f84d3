package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	strumerrors "strum/internal/errors"
)

func TestTokenIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"far future", time.Now().Add(time.Hour), false},
		{"already expired", time.Now().Add(-time.Hour), true},
		{"inside safety margin", time.Now().Add(30 * time.Second), true},
		{"just outside margin", time.Now().Add(ExpiryMargin + time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &Token{ExpiresAt: tt.expiresAt}
			if got := token.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

// withTokenServer points TokenURL at a test server for the duration of the
// test.
func withTokenServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	orig := TokenURL
	TokenURL = server.URL
	t.Cleanup(func() {
		TokenURL = orig
		server.Close()
	})
}

func TestExchangeCode(t *testing.T) {
	var gotForm map[string]string
	withTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		gotForm = map[string]string{
			"grant_type":    r.PostFormValue("grant_type"),
			"code":          r.PostFormValue("code"),
			"code_verifier": r.PostFormValue("code_verifier"),
			"client_id":     r.PostFormValue("client_id"),
		}
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken:  "new_access",
			TokenType:    "Bearer",
			ExpiresIn:    3600,
			RefreshToken: "new_refresh",
		})
	})

	cfg := NewConfig("test_client")
	token, err := ExchangeCode(context.Background(), cfg, "the_code", "the_verifier")
	if err != nil {
		t.Fatalf("ExchangeCode() error = %v", err)
	}

	if gotForm["grant_type"] != "authorization_code" {
		t.Errorf("grant_type = %q, want %q", gotForm["grant_type"], "authorization_code")
	}
	if gotForm["code"] != "the_code" {
		t.Errorf("code = %q, want %q", gotForm["code"], "the_code")
	}
	if gotForm["code_verifier"] != "the_verifier" {
		t.Errorf("code_verifier = %q, want %q", gotForm["code_verifier"], "the_verifier")
	}

	if token.AccessToken != "new_access" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "new_access")
	}
	if token.RefreshToken != "new_refresh" {
		t.Errorf("RefreshToken = %q, want %q", token.RefreshToken, "new_refresh")
	}
	if token.ExpiresAt.Before(time.Now().Add(50 * time.Minute)) {
		t.Errorf("ExpiresAt = %v, want roughly an hour out", token.ExpiresAt)
	}
}

func TestExchangeCodeServerError(t *testing.T) {
	withTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(tokenResponse{
			Error:     "invalid_grant",
			ErrorDesc: "authorization code expired",
		})
	})

	cfg := NewConfig("test_client")
	_, err := ExchangeCode(context.Background(), cfg, "stale_code", "verifier")
	if err == nil {
		t.Fatal("ExchangeCode() expected error, got nil")
	}
	if !errors.Is(err, strumerrors.ErrExchangeFailed) {
		t.Errorf("ExchangeCode() error = %v, want ErrExchangeFailed", err)
	}
}

func TestRefresh(t *testing.T) {
	withTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		if got := r.PostFormValue("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q, want %q", got, "refresh_token")
		}
		if got := r.PostFormValue("refresh_token"); got != "old_refresh" {
			t.Errorf("refresh_token = %q, want %q", got, "old_refresh")
		}
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken: "refreshed_access",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
		})
	})

	cfg := NewConfig("test_client")
	token, err := Refresh(context.Background(), cfg, "old_refresh")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if token.AccessToken != "refreshed_access" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "refreshed_access")
	}
}

func TestRefreshIncludesSecretWhenConfigured(t *testing.T) {
	withTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		if got := r.PostFormValue("client_secret"); got != "shh" {
			t.Errorf("client_secret = %q, want %q", got, "shh")
		}
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken: "a",
			ExpiresIn:   3600,
		})
	})

	cfg := NewConfig("test_client")
	cfg.ClientSecret = "shh"
	if _, err := Refresh(context.Background(), cfg, "r"); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
}
