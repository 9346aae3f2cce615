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

// Package gameera holds the Era enum in its own leaf package so that
// chunk, container, gameheader, and tree can all branch on era without
// importing the root package (which imports all of them), and the root
// package can re-export it for external callers as if it were native.
package gameera

// Era identifies the runtime generation that produced a game, which gates
// string width, chunk layout quirks, and the keystream preamble rule.
type Era int

const (
	// Old covers runtime builds before 284, games marked "old game", and
	// anything forced into compatibility mode.
	Old Era = iota
	// V284 covers builds in [284, 285].
	V284
	// V288 covers builds beyond 285.
	V288
)

// String returns a short human-readable name, used by the CLI summary and log lines.
func (e Era) String() string {
	switch e {
	case Old:
		return "old"
	case V284:
		return "v284"
	case V288:
		return "v288"
	default:
		return "unknown"
	}
}

// Unicode reports whether this era stores strings as UTF-16LE rather than
// a single-byte ASCII/Windows-1252 codepage.
func (e Era) Unicode(unicodeFlag bool) bool {
	return unicodeFlag && e != Old
}

// MagicByte returns the obfuscation magic character used to seed the
// permutation table: '6' for pre-288 builds, 'c' thereafter.
func (e Era) MagicByte() byte {
	if e == Old || e == V284 {
		return '6'
	}
	return 'c'
}

// KeystreamPreamble reports whether the chunk-id-xor preamble tweak applies
// in this era (v288 and later only; old and v284 layouts suppress it).
func (e Era) KeystreamPreamble() bool {
	return e == V288
}

// Derive implements the era-selection rule from the game header: an old
// build number, the explicit "old game" flag, or a forced-compatibility
// request all select Old; otherwise a build past 285 selects V288, and
// anything else in between selects V284.
func Derive(build uint32, oldGame, forceCompat bool) Era {
	switch {
	case build < 284 || oldGame || forceCompat:
		return Old
	case build > 285:
		return V288
	default:
		return V284
	}
}
