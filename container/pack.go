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
	"fmt"
	"unicode/utf16"

	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/ctferrors"
)

// PackMagic is the u64 sentinel that introduces a pack-file prelude, read
// little-endian ("wwwwI\x87G\x12" on the wire).
const PackMagic uint64 = 0x1247874977777777

// These mirror the outer format-header magics the gameheader package
// recognizes; duplicated locally (rather than imported) so this package has
// no dependency on gameheader, which itself calls into this package.
const (
	magicPAME uint32 = 0x454D4150
	magicPAMU uint32 = 0x554D4150
	magicCRUF uint32 = 0x46555243
)

// PackEntry is one auxiliary file embedded in a pack-file prelude.
type PackEntry struct {
	Name     string
	Data     []byte
	Bingo    uint32
	HasBingo bool
}

// ReadPack reads a pack-file prelude, with r positioned immediately after
// the already-consumed 8-byte PackMagic. Per §4.F/§6: u32 header_size; u32
// data_size; skip to +0x10 (a no-op at this point); u32 format_version; skip
// 8; i32 count; then count entries.
//
// Whether each entry carries a trailing "bingo" u32 depends on whether
// format_version itself is one of the PAME/PAMU magic constants (reused here
// as a sentinel rather than a file-level magic) — the grammar's "if header
// != PAME/PAMU" clause. Entry names are UTF-16LE when the *outer* header
// that follows the whole prelude is CRUF and single-byte otherwise, a PAMU
// header included; since that header sits right after this prelude's
// declared header_size, it is peeked ahead of time rather than guessed.
func ReadPack(r *bin.Reader) ([]PackEntry, error) {
	preludeStart := r.Position() - 8 // back up over the magic the caller already consumed

	headerSize, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("pack header_size: %w", err)
	}
	if _, err := r.ReadU32(); err != nil { // data_size, not otherwise needed
		return nil, fmt.Errorf("pack data_size: %w", err)
	}
	if err := r.SeekTo(preludeStart + 0x10); err != nil {
		return nil, fmt.Errorf("pack seek to +0x10: %w", err)
	}

	formatVersion, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("pack format_version: %w", err)
	}
	if err := r.Skip(8); err != nil {
		return nil, fmt.Errorf("pack reserved skip: %w", err)
	}
	count, err := r.ReadS32()
	if err != nil {
		return nil, fmt.Errorf("pack count: %w", err)
	}
	if count < 0 || count > 1<<20 {
		return nil, fmt.Errorf("pack count %d: %w", count, ctferrors.ErrInvalidPackCount)
	}

	unicode := peekUnicode(r, preludeStart+int(headerSize))
	hasBingo := formatVersion != magicPAME && formatVersion != magicPAMU

	entries := make([]PackEntry, 0, count)
	for i := range int(count) {
		nameLen, err := r.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("pack entry %d name_len: %w", i, err)
		}

		var name string
		if unicode {
			units, err := readUTF16Units(r, int(nameLen))
			if err != nil {
				return nil, fmt.Errorf("pack entry %d name: %w", i, err)
			}
			name = string(units)
		} else {
			raw, err := r.ReadSpan(int(nameLen))
			if err != nil {
				return nil, fmt.Errorf("pack entry %d name: %w", i, err)
			}
			name = string(raw.Bytes())
		}

		var bingo uint32
		if hasBingo {
			bingo, err = r.ReadU32()
			if err != nil {
				return nil, fmt.Errorf("pack entry %d bingo: %w", i, err)
			}
		}

		dataLen, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("pack entry %d data_len: %w", i, err)
		}
		data, err := r.ReadSpan(int(dataLen))
		if err != nil {
			return nil, fmt.Errorf("pack entry %d data: %w", i, err)
		}

		entries = append(entries, PackEntry{
			Name:     name,
			Data:     data.Bytes(),
			Bingo:    bingo,
			HasBingo: hasBingo,
		})
	}

	return entries, nil
}

// peekUnicode reads the u32 magic expected at headerEnd (where the real
// format header begins, right after the pack prelude) without disturbing r's
// current position, and reports whether it is CRUF, the one header after
// which pack entry names are UTF-16LE. A PAMU header, any other magic and any
// read failure all mean single-byte names.
func peekUnicode(r *bin.Reader, headerEnd int) bool {
	saved := r.Position()
	defer func() { _ = r.SeekTo(saved) }()

	if err := r.SeekTo(headerEnd); err != nil {
		return false
	}
	magic, err := r.ReadU32()
	if err != nil {
		return false
	}
	return magic == magicCRUF
}

// readUTF16Units reads n little-endian UTF-16 code units and decodes them.
func readUTF16Units(r *bin.Reader, n int) ([]rune, error) {
	units := make([]uint16, n)
	for i := range units {
		u, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		units[i] = u
	}
	return utf16.Decode(units), nil
}
