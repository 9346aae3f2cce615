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

// Package names selects ASCII vs UTF-16LE decoding for name/title/path
// fields per the product era, and reads the packed null-terminated string
// arrays used by the "object names" chunk.
package names

import (
	"unicode/utf16"

	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/gameera"
)

// ReadCString reads one NUL-terminated name, single-byte for old-era or
// non-unicode dialects (the bytes are copied into the string unchanged, not
// decoded from a codepage), UTF-16LE otherwise.
func ReadCString(r *bin.Reader, era gameera.Era, unicodeFlag bool) (string, error) {
	if era.Unicode(unicodeFlag) {
		units, err := bin.ReadCString[uint16](r)
		if err != nil {
			return "", err
		}
		return string(utf16.Decode(units)), nil
	}
	raw, err := bin.ReadCString[byte](r)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ReadFixedCString reads a fixed-width n-unit name field (ASCII or
// UTF-16LE per era), requiring a terminating NUL somewhere within it.
func ReadFixedCString(r *bin.Reader, era gameera.Era, unicodeFlag bool, n int) (string, error) {
	if era.Unicode(unicodeFlag) {
		units, err := bin.ReadExactCString[uint16](r, n)
		if err != nil {
			return "", err
		}
		return string(utf16.Decode(units)), nil
	}
	raw, err := bin.ReadExactCString[byte](r, n)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ReadPackedArray reads a run of NUL-terminated names packed back-to-back
// with no length prefix between them ("object names"), stopping once
// totalUnits elements have been consumed (a size-prefixed outer span the
// caller has already sliced out).
func ReadPackedArray(r *bin.Reader, era gameera.Era, unicodeFlag bool, totalUnits int) ([]string, error) {
	var out []string
	limit := totalUnits
	if era.Unicode(unicodeFlag) {
		limit *= 2 // UTF-16LE units are two bytes each
	}
	for r.Position() < limit {
		name, err := ReadCString(r, era, unicodeFlag)
		if err != nil {
			return out, err
		}
		out = append(out, name)
	}
	return out, nil
}
