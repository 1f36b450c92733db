// Package logging configures the zerolog logger shared by both binaries.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where and how much to log.
type Options struct {
	Level   string // zerolog level name; empty means info
	Console bool   // human-readable output instead of JSON
	// File, when set, receives the logs instead of stderr. The TUI uses it
	// because the terminal belongs to the UI.
	File string
}

// New builds a logger from opts. The returned cleanup closes the log file, if
// one was opened. When the file cannot be opened the logs are discarded,
// never redirected to stderr.
func New(service string, opts Options) (zerolog.Logger, func()) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	out, cleanup := output(opts.File)
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: opts.File != ""}
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
	return logger, cleanup
}

// DefaultFile returns ~/.local/state/consultas/<name>.log, or "" when the
// home directory is unknown.
func DefaultFile(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "consultas", name+".log")
}

// output picks the log destination: stderr when no file is set, the file
// when it opens, and io.Discard otherwise.
func output(path string) (io.Writer, func()) {
	if path == "" {
		return os.Stderr, func() {}
	}
	f, err := openLogFile(path)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}
