// Package client wraps the Spotify Web API: authenticated requests with
// token refresh, rate limiting, and the error taxonomy the rest of strum
// works in terms of.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	strumerrors "strum/internal/errors"
	"strum/internal/spotify/auth"
)

const (
	// BaseURL is the Spotify Web API base URL.
	BaseURL = "https://api.spotify.com/v1"

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client is a Spotify API client. All requests go through a shared rate
// limiter and carry the current access token, refreshing it when it is
// within the expiry margin.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authConfig *auth.Config
	storage    *auth.Storage
	limiter    *rate.Limiter
	logger     *log.Logger

	mu    sync.RWMutex
	token *auth.Token
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a new Spotify client.
func New(authConfig *auth.Config, storage *auth.Storage, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    BaseURL,
		authConfig: authConfig,
		storage:    storage,
		// Spotify tolerates bursts but throttles sustained traffic; ten
		// requests a second leaves headroom under the documented limits.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadToken loads the token from storage.
func (c *Client) LoadToken() error {
	token, err := c.storage.Load()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// SetToken sets the current token and persists it.
func (c *Client) SetToken(token *auth.Token) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return c.storage.Save(token)
}

// HasToken returns true if there is any token, even an expired one with a
// refresh token.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != nil
}

// IsAuthenticated returns true if there is a token not yet inside the expiry
// margin.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != nil && !c.token.IsExpired()
}

// refresh replaces the current token via the refresh grant. When force is
// false a token outside the expiry margin is kept as is.
func (c *Client) refresh(ctx context.Context, force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == nil {
		return strumerrors.ErrUnauthorized
	}
	if !force && !c.token.IsExpired() {
		return nil
	}
	if c.token.RefreshToken == "" {
		return strumerrors.ErrUnauthorized
	}

	c.logger.Debug("refreshing access token", "force", force)
	newToken, err := auth.Refresh(ctx, c.authConfig, c.token.RefreshToken)
	if err != nil {
		return fmt.Errorf("%w: refresh failed: %v", strumerrors.ErrUnauthorized, err)
	}

	// Spotify may omit the refresh token on rotation; keep the old one.
	if newToken.RefreshToken == "" {
		newToken.RefreshToken = c.token.RefreshToken
	}

	c.token = newToken
	return c.storage.Save(newToken)
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if err := c.refresh(ctx, false); err != nil {
		return "", err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil {
		return "", strumerrors.ErrUnauthorized
	}
	return c.token.AccessToken, nil
}

// Get performs a GET request against the API.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	_, err := c.request(ctx, "GET", path, nil, result)
	return err
}

// Post performs a POST request against the API.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	_, err := c.request(ctx, "POST", path, body, result)
	return err
}

// Put performs a PUT request against the API.
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	_, err := c.request(ctx, "PUT", path, body, result)
	return err
}

// request performs one API call. It retries transient failures, and on a 401
// forces exactly one token refresh and retries exactly once; a second 401
// surfaces as ErrUnauthorized.
func (c *Client) request(ctx context.Context, method, path string, body, result interface{}) (int, error) {
	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	fullURL := c.baseURL + path
	refreshed := false

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := baseRetryWait * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying request", "attempt", attempt, "wait", wait, "err", lastErr)
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(wait):
			}
		}

		token, err := c.accessToken(ctx)
		if err != nil {
			return 0, err
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return 0, err
		}

		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = strings.NewReader(string(jsonBody))
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return 0, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		c.logger.Debug("api request", "method", method, "url", fullURL)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", strumerrors.ErrNetwork, err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: reading response: %v", strumerrors.ErrNetwork, err)
			continue
		}

		c.logger.Debug("api response", "status", resp.StatusCode, "url", fullURL)

		switch {
		case resp.StatusCode == http.StatusNoContent:
			return resp.StatusCode, nil

		case resp.StatusCode == http.StatusUnauthorized:
			if refreshed {
				return resp.StatusCode, strumerrors.ErrUnauthorized
			}
			refreshed = true
			if err := c.refresh(ctx, true); err != nil {
				return resp.StatusCode, err
			}
			attempt-- // the refresh retry does not consume a backoff slot
			continue

		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := resp.Header.Get("Retry-After")
			return resp.StatusCode, fmt.Errorf("%w: retry after %ss", strumerrors.ErrRateLimited, retryAfter)

		case resp.StatusCode == http.StatusNotFound:
			return resp.StatusCode, c.notFoundError(path, respBody)

		case resp.StatusCode >= 500:
			lastErr = apiError(resp.StatusCode, respBody)
			continue

		case resp.StatusCode >= 400:
			return resp.StatusCode, apiError(resp.StatusCode, respBody)
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
			}
		}
		return resp.StatusCode, nil
	}

	return 0, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

// notFoundError maps a 404 to the taxonomy: on player endpoints it means no
// active device, elsewhere a missing resource.
func (c *Client) notFoundError(path string, body []byte) error {
	var apiErr apiErrorBody
	_ = json.Unmarshal(body, &apiErr)
	if apiErr.Error.Reason == "NO_ACTIVE_DEVICE" || strings.HasPrefix(path, "/me/player") {
		return strumerrors.ErrNoActiveDevice
	}
	if apiErr.Error.Message != "" {
		return fmt.Errorf("%w: %s", strumerrors.ErrNotFound, apiErr.Error.Message)
	}
	return strumerrors.ErrNotFound
}

type apiErrorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error"`
}

func apiError(status int, body []byte) error {
	var apiErr apiErrorBody
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("spotify api error %d: %s", status, apiErr.Error.Message)
	}
	return fmt.Errorf("spotify api error %d", status)
}

// BuildURL appends query parameters to a path.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}
	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// itoa keeps call sites terse when building pagination params.
func itoa(n int) string { return strconv.Itoa(n) }
