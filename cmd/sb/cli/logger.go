// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// DebugEnv enables debug logging for every command when non-empty.
const DebugEnv = "SB_DEBUG"

// LogLevel returns debug when verbose is set or [DebugEnv] is
// non-empty, info otherwise.
func LogLevel(verbose bool) slog.Level {
	if verbose || os.Getenv(DebugEnv) != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewCommandLogger creates a structured logger writing to w. When w is
// a terminal it uses slog.TextHandler for human-readable output;
// otherwise slog.JSONHandler for machine-parseable output.
//
// Callers scope the logger with command-specific context via With():
//
//	logger = logger.With("target", "sandbox", "branch", branch)
func NewCommandLogger(w io.Writer, level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
