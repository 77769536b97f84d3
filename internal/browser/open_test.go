package browser

import "testing"

func TestOpenUnsupportedPlatform(t *testing.T) {
	orig := goos
	goos = func() string { return "plan9" }
	defer func() { goos = orig }()

	if err := Open("http://example.com"); err == nil {
		t.Error("Open() on unsupported platform should return an error")
	}
}

func TestOpenMissingHandler(t *testing.T) {
	orig := goos
	goos = func() string { return "linux" }
	defer func() { goos = orig }()

	t.Setenv("PATH", t.TempDir()) // no xdg-open on PATH

	if err := Open("http://example.com"); err == nil {
		t.Error("Open() without a handler should return an error")
	}
}
