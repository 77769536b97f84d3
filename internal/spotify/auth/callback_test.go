package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestCallbackServer(t *testing.T) {
	server, err := NewCallbackServer(0)
	if err != nil {
		t.Fatalf("NewCallbackServer() error = %v", err)
	}

	server.Start()
	defer func() { _ = server.Shutdown(context.Background()) }()

	port := server.Port()
	if port == 0 {
		t.Fatal("Server port should not be 0 after starting")
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		url := fmt.Sprintf("http://127.0.0.1:%d/callback?code=test_code&state=test_state", port)
		resp, err := http.Get(url)
		if err != nil {
			t.Errorf("Failed to make callback request: %v", err)
			return
		}
		_ = resp.Body.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := server.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if result.Code != "test_code" {
		t.Errorf("Code = %q, want %q", result.Code, "test_code")
	}
	if result.State != "test_state" {
		t.Errorf("State = %q, want %q", result.State, "test_state")
	}
	if result.Error != "" {
		t.Errorf("Error = %q, want empty", result.Error)
	}
}

func TestCallbackServerError(t *testing.T) {
	server, err := NewCallbackServer(0)
	if err != nil {
		t.Fatalf("NewCallbackServer() error = %v", err)
	}

	server.Start()
	defer func() { _ = server.Shutdown(context.Background()) }()

	port := server.Port()

	go func() {
		time.Sleep(50 * time.Millisecond)
		url := fmt.Sprintf("http://127.0.0.1:%d/callback?error=access_denied&state=test_state", port)
		resp, err := http.Get(url)
		if err != nil {
			t.Errorf("Failed to make callback request: %v", err)
			return
		}
		_ = resp.Body.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := server.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if result.Error != "access_denied" {
		t.Errorf("Error = %q, want %q", result.Error, "access_denied")
	}
}

func TestCallbackServerTimeout(t *testing.T) {
	server, err := NewCallbackServer(0)
	if err != nil {
		t.Fatalf("NewCallbackServer() error = %v", err)
	}

	server.Start()
	defer func() { _ = server.Shutdown(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = server.Wait(ctx)
	if err != context.DeadlineExceeded {
		t.Errorf("Wait() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestCallbackServerIgnoresStrayRequests(t *testing.T) {
	server, err := NewCallbackServer(0)
	if err != nil {
		t.Fatalf("NewCallbackServer() error = %v", err)
	}

	server.Start()
	defer func() { _ = server.Shutdown(context.Background()) }()

	port := server.Port()

	// A request with neither code nor error must not produce a result.
	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/favicon.ico", port))
	if err != nil {
		t.Fatalf("stray request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("stray request status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if _, err := server.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("Wait() after stray request error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestCallbackServerReleasesPort(t *testing.T) {
	server, err := NewCallbackServer(0)
	if err != nil {
		t.Fatalf("NewCallbackServer() error = %v", err)
	}
	server.Start()
	port := server.Port()

	if err := server.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	// The port must be free again after shutdown.
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		t.Fatalf("port %d still held after Shutdown(): %v", port, err)
	}
	_ = ln.Close()
}
