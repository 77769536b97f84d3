// Package browser opens URLs in the system's default browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

var goos = func() string { return runtime.GOOS }

// Open launches the default browser at the given URL. Callers should treat a
// failure as non-fatal and fall back to printing the URL.
func Open(url string) error {
	var cmd *exec.Cmd

	switch goos() {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", goos())
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
