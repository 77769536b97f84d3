package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	strumerrors "strum/internal/errors"
)

// CallbackResult contains the query parameters of the OAuth redirect.
type CallbackResult struct {
	Code  string
	State string
	Error string
}

// CallbackServer captures the single OAuth redirect from Spotify. It is bound
// immediately on construction so the port is held before the authorize URL is
// presented to the user, and it must be shut down in every outcome to free
// the port.
type CallbackServer struct {
	server   *http.Server
	listener net.Listener
	result   chan CallbackResult
}

// NewCallbackServer binds a listener on the given port. A bind failure is
// reported as ErrListenerBind.
func NewCallbackServer(port int) (*CallbackServer, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("%w: port %d: %v", strumerrors.ErrListenerBind, port, err)
	}

	cs := &CallbackServer{
		listener: listener,
		result:   make(chan CallbackResult, 1),
	}

	mux := http.NewServeMux()
	// Spotify redirects to the registered path, but accept "/" too so a
	// registration without the path still lands here.
	mux.HandleFunc("/callback", cs.handleCallback)
	mux.HandleFunc("/", cs.handleCallback)

	cs.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return cs, nil
}

// Start begins serving HTTP requests in the background.
func (cs *CallbackServer) Start() {
	go func() {
		_ = cs.server.Serve(cs.listener)
	}()
}

// Wait blocks until a callback is received or the context is done.
func (cs *CallbackServer) Wait(ctx context.Context) (CallbackResult, error) {
	select {
	case result := <-cs.result:
		return result, nil
	case <-ctx.Done():
		return CallbackResult{}, ctx.Err()
	}
}

// Shutdown gracefully shuts down the server and releases the port.
func (cs *CallbackServer) Shutdown(ctx context.Context) error {
	return cs.server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (cs *CallbackServer) Port() int {
	return cs.listener.Addr().(*net.TCPAddr).Port
}

func (cs *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	result := CallbackResult{
		Code:  query.Get("code"),
		State: query.Get("state"),
		Error: query.Get("error"),
	}

	// Stray requests (favicon fetches and the like) are not the redirect.
	if result.Code == "" && result.Error == "" {
		http.NotFound(w, r)
		return
	}

	// Only the first redirect counts; duplicates just get the page.
	select {
	case cs.result <- result:
	default:
	}

	if result.Error != "" {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Authentication Failed</title></head>
<body>
<h1>Authentication Failed</h1>
<p>Error: %s</p>
<p>You can close this window.</p>
</body>
</html>`, result.Error)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Authentication Successful</title></head>
<body>
<h1>Authentication Successful</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`)
}
