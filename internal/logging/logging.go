// Package logging provides the shared file-backed logger. The TUI owns the
// terminal, so log output always goes to a file (or nowhere).
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"

	"strum/internal/config"
)

// DefaultLogFileName is the log file name under the state directory.
const DefaultLogFileName = "strum.log"

// New creates a logger according to cfg. If the log file cannot be opened the
// logger discards output rather than writing to the terminal.
func New(cfg config.LogConfig) *log.Logger {
	path := cfg.File
	if path == "" {
		path = filepath.Join(xdg.StateHome, "strum", DefaultLogFileName)
	}

	var w io.Writer = io.Discard
	if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			w = f
		}
	}

	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	logger.SetLevel(parseLevel(cfg.Level))
	return logger
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
