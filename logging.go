// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-gameid.
//
// go-gameid is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-gameid is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-gameid.  If not, see <https://www.gnu.org/licenses/>.

package ctfreader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Logger is the leveled logging surface the parser writes diagnostics to:
// a debug line per top-level chunk, a warning when a chunk kept as raw
// bytes fails to decode, and a warning when a paletted image is decoded
// without a palette. Skipped bank items are not logged; they are listed in
// the parse result's failures.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// slogLogger adapts a *slog.Logger to Logger. No third-party logging
// library appears anywhere in the retrieval pack, so this wraps stdlib
// log/slog rather than reaching outside it.
type slogLogger struct {
	l *slog.Logger
}

// NewLogger returns a Logger backed by log/slog at the given minimum level,
// writing to stderr as text (matching a CLI tool's default, not JSON).
func NewLogger(level slog.Level) Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &slogLogger{l: slog.New(h)}
}

// NoopLogger discards everything; the zero value of *noopLogger works, so
// callers that don't configure a Logger get silence rather than a nil
// dereference.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// NoopLogger is the default Logger when a Config doesn't set one.
var NoopLogger Logger = noopLogger{}

func (s *slogLogger) Debugf(format string, args ...any) {
	s.l.Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, args...))
}

func (s *slogLogger) Warnf(format string, args ...any) {
	s.l.Log(context.Background(), slog.LevelWarn, fmt.Sprintf(format, args...))
}

func (s *slogLogger) Errorf(format string, args ...any) {
	s.l.Log(context.Background(), slog.LevelError, fmt.Sprintf(format, args...))
}
