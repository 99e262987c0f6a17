// SPDX-License-Identifier: EPL-2.0

// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ik5/oggproc/internal/config"
)

// ParseLevel maps a configured level name to its slog.Level. Unknown names
// fall back to info.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewWithWriter builds a logger that writes to w.
func NewWithWriter(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger for cfg.Output. The returned closer releases the log
// file, if one was opened.
func New(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	switch cfg.Output {
	case "stdout":
		return NewWithWriter(cfg, os.Stdout), nopCloser{}, nil
	case "stderr", "":
		return NewWithWriter(cfg, os.Stderr), nopCloser{}, nil
	}

	f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.Output, err)
	}

	return NewWithWriter(cfg, f), f, nil
}
