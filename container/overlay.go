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

package container

import (
	"bytes"
	"fmt"

	"github.com/fusionforensics/ctfreader/internal/ctferrors"
	"github.com/saferwall/pe"
)

// mzMagic is the DOS header signature ("MZ"). A payload lacking it is not a
// PE at all, and the game stream starts at offset 0 — §4.F's "if the input
// isn't a PE, seek to 0" rule.
var mzMagic = []byte("MZ")

// FindGameStart locates the offset at which the pack-file prelude begins
// inside data: 0 when data isn't a PE image, otherwise the end of the last
// section's raw data (the PE's overlay), computed per §4.F rather than taken
// from the library's own OverlayOffset (which is PointerToRawData-based and
// disagrees with this format's encoder in the zero-VirtualAddress edge case).
func FindGameStart(data []byte) (int, error) {
	if !bytes.HasPrefix(data, mzMagic) {
		return 0, nil
	}

	f, err := pe.NewBytes(data, &pe.Options{Fast: true})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ctferrors.ErrInvalidExeSignature, err)
	}
	defer func() { _ = f.Close() }()

	if err := f.Parse(); err != nil {
		return 0, fmt.Errorf("%w: %w", ctferrors.ErrInvalidPESignature, err)
	}

	if len(f.Sections) == 0 {
		return 0, nil
	}

	var maxVAEnd uint64
	var sumRawSize uint64
	haveVA := false
	for _, sec := range f.Sections {
		sumRawSize += uint64(sec.Header.SizeOfRawData)
		if sec.Header.VirtualAddress == 0 {
			continue
		}
		haveVA = true
		end := uint64(sec.Header.VirtualAddress) + uint64(sec.Header.SizeOfRawData)
		if end > maxVAEnd {
			maxVAEnd = end
		}
	}

	if haveVA {
		if maxVAEnd > uint64(len(data)) {
			maxVAEnd = uint64(len(data))
		}
		return int(maxVAEnd), nil
	}
	if sumRawSize > uint64(len(data)) {
		sumRawSize = uint64(len(data))
	}
	return int(sumRawSize), nil
}
