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

import "log/slog"

// defaultMaxItemReadFails is the fail budget for old/new-era bank item
// entries when Config doesn't override it.
const defaultMaxItemReadFails = 3

// Config holds the behavior knobs recognized by the core (spec §6).
type Config struct {
	// ForceCompat treats every game as old era regardless of product_build.
	ForceCompat bool

	// SkipBrokenItems continues a bank parse past a failing item instead of
	// aborting the whole parse.
	SkipBrokenItems bool

	// MaxItemReadFails bounds how many item failures a bank tolerates before
	// surfacing the failure, even with SkipBrokenItems set. Zero means use
	// defaultMaxItemReadFails.
	MaxItemReadFails int

	// DumpColorTransparent enables colour-key transparency in image decode.
	DumpColorTransparent bool

	// ParallelImageDecode fans already-parsed image-bank entries' decode out
	// across a worker pool instead of decoding them sequentially. Disabled
	// by default; each entry is independent once parsed, so this is a pure
	// data-parallel fan-out with no shared mutation.
	ParallelImageDecode bool

	// LogLevel is a level for the caller to pass to NewLogger. Parse does
	// not read it: with no Logger set, diagnostics go to NoopLogger.
	LogLevel slog.Level

	// ArchiveExtraction allows zip/7z/rar unwrap before overlay discovery.
	ArchiveExtraction bool

	// Logger receives diagnostics; NoopLogger if nil.
	Logger Logger

	// Progress, if set, receives a 0..1 completion estimate as Parse walks
	// the chunk tree.
	Progress *Progress

	// Cancel, if set, is polled between top-level chunks; a true return
	// discards the in-progress Game and Parse returns ErrCancelled.
	Cancel CancelFunc

	// Anaconda is passed through as internal/inflate's Inflate anaconda
	// flag. That decoder accepts the same input whether it is set or not;
	// no raw-deflate variant is decoded differently because of it.
	Anaconda bool
}

// maxItemReadFails resolves the effective per-bank fail budget.
func (c *Config) maxItemReadFails() int {
	if c == nil || c.MaxItemReadFails <= 0 {
		return defaultMaxItemReadFails
	}
	return c.MaxItemReadFails
}

// logger resolves the effective Logger, defaulting to silence.
func (c *Config) logger() Logger {
	if c == nil || c.Logger == nil {
		return NoopLogger
	}
	return c.Logger
}

// DefaultConfig returns the zero-value-safe default configuration:
// archive extraction on, everything else off/default.
func DefaultConfig() Config {
	return Config{
		ArchiveExtraction: true,
		LogLevel:          slog.LevelInfo,
	}
}
