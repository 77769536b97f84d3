package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"strum/internal/browser"
	strumerrors "strum/internal/errors"
)

// DefaultFlowTimeout bounds how long Authenticate waits for the redirect.
const DefaultFlowTimeout = 2 * time.Minute

// FlowOptions configures a single run of the authorization flow.
type FlowOptions struct {
	Config  *Config
	Timeout time.Duration

	// OpenBrowser opens the authorize URL. Defaults to browser.Open; a
	// failure falls back to printing the URL on Out. Both paths converge on
	// the same listener.
	OpenBrowser func(url string) error

	// Out receives user-facing progress messages. Defaults to os.Stderr.
	Out io.Writer
}

func (o *FlowOptions) setDefaults() {
	if o.Timeout == 0 {
		o.Timeout = DefaultFlowTimeout
	}
	if o.OpenBrowser == nil {
		o.OpenBrowser = browser.Open
	}
	if o.Out == nil {
		o.Out = os.Stderr
	}
}

// Authenticate drives one complete authorization-code exchange: it binds the
// redirect listener, presents the authorize URL, waits for the single
// redirect, validates the state nonce, and exchanges the code for a token
// set. The listener is shut down before returning in every outcome, so the
// port is free whether the flow succeeded, failed, or timed out.
func Authenticate(ctx context.Context, opts FlowOptions) (*Token, error) {
	opts.setDefaults()
	cfg := opts.Config

	sess, err := NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to generate authorization session: %w", err)
	}

	// Bind before presenting the URL so a fast login cannot race the
	// listener.
	server, err := NewCallbackServer(cfg.RedirectPort())
	if err != nil {
		return nil, err
	}
	server.Start()

	// A port-0 redirect URI means "any free port"; reflect the bound port in
	// the URI Spotify redirects to and the one sent with the exchange.
	if cfg.RedirectPort() != server.Port() {
		resolved := *cfg
		resolved.RedirectURI = rewritePort(cfg.RedirectURI, server.Port())
		cfg = &resolved
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := cfg.BuildAuthorizeURL(sess)
	if err := opts.OpenBrowser(authURL); err != nil {
		fmt.Fprintf(opts.Out, "Could not open browser automatically.\n")
		fmt.Fprintf(opts.Out, "Open this URL to authenticate:\n\n%s\n\n", authURL)
	} else {
		fmt.Fprintln(opts.Out, "Opening browser for Spotify authentication...")
	}
	fmt.Fprintln(opts.Out, "Waiting for authentication...")

	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	result, err := server.Wait(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, strumerrors.ErrAuthTimeout
		}
		return nil, err
	}

	if result.Error != "" {
		return nil, fmt.Errorf("%w: provider returned %q", strumerrors.ErrExchangeFailed, result.Error)
	}

	// The nonce must match the one generated for this session, or the code
	// is not exchanged at all.
	if result.State != sess.State {
		return nil, strumerrors.ErrStateMismatch
	}

	token, err := ExchangeCode(ctx, cfg, result.Code, sess.Verifier)
	if err != nil {
		return nil, err
	}

	return token, nil
}

func rewritePort(rawURI string, port int) string {
	u, err := url.Parse(rawURI)
	if err != nil {
		return rawURI
	}
	u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(port))
	return u.String()
}
