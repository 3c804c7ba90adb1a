package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// OpenLogger builds the process logger. Records go to Log.File as text;
// with no file they are discarded, since the explorer owns the terminal.
// The returned close func is never nil.
func (c *Config) OpenLogger() (*slog.Logger, func() error, error) {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	if c.Log.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(c.Log.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl}))
	return logger, f.Close, nil
}
