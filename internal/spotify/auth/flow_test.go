package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	strumerrors "strum/internal/errors"
)

// flowFixture wires a flow run against a local listener and a fake token
// endpoint. The fake "browser" parses the authorize URL and issues the
// redirect itself.
type flowFixture struct {
	exchangeCalls atomic.Int32
	tamperState   string // replaces the real state in the redirect when set
}

func (f *flowFixture) run(t *testing.T, timeout time.Duration) (*Token, error) {
	t.Helper()

	withTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		f.exchangeCalls.Add(1)
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken:  "flow_access",
			TokenType:    "Bearer",
			ExpiresIn:    3600,
			RefreshToken: "flow_refresh",
		})
	})

	cfg := NewConfig("test_client")
	cfg.RedirectURI = "http://127.0.0.1:0/callback" // random port

	var out bytes.Buffer
	opts := FlowOptions{
		Config:  cfg,
		Timeout: timeout,
		Out:     &out,
		OpenBrowser: func(authURL string) error {
			go func() {
				u, err := url.Parse(authURL)
				if err != nil {
					t.Errorf("invalid authorize URL: %v", err)
					return
				}
				state := u.Query().Get("state")
				if f.tamperState != "" {
					state = f.tamperState
				}
				redirect := fmt.Sprintf("%s?code=flow_code&state=%s",
					u.Query().Get("redirect_uri"), state)
				resp, err := http.Get(redirect)
				if err != nil {
					return
				}
				_ = resp.Body.Close()
			}()
			return nil
		},
	}

	return Authenticate(context.Background(), opts)
}

func TestAuthenticate(t *testing.T) {
	f := &flowFixture{}
	token, err := f.run(t, 2*time.Second)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if token.AccessToken != "flow_access" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "flow_access")
	}
	if got := f.exchangeCalls.Load(); got != 1 {
		t.Errorf("exchange calls = %d, want 1", got)
	}
}

func TestAuthenticateStateMismatch(t *testing.T) {
	f := &flowFixture{tamperState: "forged_state"}
	_, err := f.run(t, 2*time.Second)
	if !errors.Is(err, strumerrors.ErrStateMismatch) {
		t.Fatalf("Authenticate() error = %v, want ErrStateMismatch", err)
	}

	// A mismatched nonce must never reach the token endpoint.
	if got := f.exchangeCalls.Load(); got != 0 {
		t.Errorf("exchange calls = %d, want 0", got)
	}
}

func TestAuthenticateTimeout(t *testing.T) {
	cfg := NewConfig("test_client")
	cfg.RedirectURI = "http://127.0.0.1:0/callback"

	var out bytes.Buffer
	_, err := Authenticate(context.Background(), FlowOptions{
		Config:      cfg,
		Timeout:     100 * time.Millisecond,
		Out:         &out,
		OpenBrowser: func(string) error { return nil },
	})
	if !errors.Is(err, strumerrors.ErrAuthTimeout) {
		t.Fatalf("Authenticate() error = %v, want ErrAuthTimeout", err)
	}
}

func TestAuthenticateProviderDenied(t *testing.T) {
	cfg := NewConfig("test_client")
	cfg.RedirectURI = "http://127.0.0.1:0/callback"

	var out bytes.Buffer
	_, err := Authenticate(context.Background(), FlowOptions{
		Config:  cfg,
		Timeout: 2 * time.Second,
		Out:     &out,
		OpenBrowser: func(authURL string) error {
			go func() {
				u, _ := url.Parse(authURL)
				redirect := u.Query().Get("redirect_uri") + "?error=access_denied"
				resp, err := http.Get(redirect)
				if err != nil {
					return
				}
				_ = resp.Body.Close()
			}()
			return nil
		},
	})
	if !errors.Is(err, strumerrors.ErrExchangeFailed) {
		t.Fatalf("Authenticate() error = %v, want ErrExchangeFailed", err)
	}
	if !strings.Contains(err.Error(), "access_denied") {
		t.Errorf("error %q does not name the provider error", err)
	}
}

func TestAuthenticateBrowserFallbackPrintsURL(t *testing.T) {
	cfg := NewConfig("test_client")
	cfg.RedirectURI = "http://127.0.0.1:0/callback"

	var out bytes.Buffer
	_, err := Authenticate(context.Background(), FlowOptions{
		Config:      cfg,
		Timeout:     100 * time.Millisecond,
		Out:         &out,
		OpenBrowser: func(string) error { return errors.New("no browser") },
	})
	if !errors.Is(err, strumerrors.ErrAuthTimeout) {
		t.Fatalf("Authenticate() error = %v, want ErrAuthTimeout", err)
	}

	// The fallback must print a URL the user can open by hand.
	if !strings.Contains(out.String(), AuthorizeURL) {
		t.Errorf("output does not contain the authorize URL:\n%s", out.String())
	}
}

func TestAuthenticateListenerBindFailure(t *testing.T) {
	// Hold the port ourselves so the flow cannot bind it.
	held, err := NewCallbackServer(0)
	if err != nil {
		t.Fatalf("NewCallbackServer() error = %v", err)
	}
	held.Start()
	defer func() { _ = held.Shutdown(context.Background()) }()

	cfg := NewConfig("test_client")
	cfg.RedirectURI = fmt.Sprintf("http://127.0.0.1:%d/callback", held.Port())

	var out bytes.Buffer
	_, err = Authenticate(context.Background(), FlowOptions{
		Config:      cfg,
		Timeout:     time.Second,
		Out:         &out,
		OpenBrowser: func(string) error { return nil },
	})
	if !errors.Is(err, strumerrors.ErrListenerBind) {
		t.Fatalf("Authenticate() error = %v, want ErrListenerBind", err)
	}
}
