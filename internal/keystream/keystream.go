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

// Package keystream implements the obfuscation layer used by mode-2/3 chunk
// bodies: a key derived from the game's own title/copyright/project-path
// strings, expanded into a 256-entry permutation table, walked with a
// classic RC4-style PRGA. It is a deliberate reinterpretation of the
// original engine's SSE-intrinsic table shuffle (encryption.cpp's
// GenerateTable/DecodeWithTable) as a flat, portable Go permutation of
// uint32 state words, since no SIMD register trick survives translation
// and the original's __m128i layout is, underneath, just a contiguous
// 256-word buffer addressed byte- and dword-wise.
package keystream

import (
	"errors"
)

// ErrDecryptFailed is returned when the permutation table's checksum byte
// does not match, meaning the derived key does not belong to this game
// (title/copyright/project-path strings missing or altered).
var ErrDecryptFailed = errors.New("keystream: checksum mismatch, key does not match this game")

// DeriveKey concatenates the UTF-8 projections of title, copyright, and
// (when includePath is true — suppressed for the old era) projectPath, until
// the accumulator reaches 128 bytes, truncating the final contributor if it
// would overrun. The remaining 128 bytes of the 256-byte result start at
// zero. A one-byte rolling hash then walks the first 128 bytes, XORing each
// into place and accumulating a checksum byte written at key[128].
func DeriveKey(title, copyright, projectPath string, includePath bool) [256]byte {
	var key [256]byte

	parts := [][]byte{[]byte(title), []byte(copyright)}
	if includePath {
		parts = append(parts, []byte(projectPath))
	}

	n := 0
	for _, p := range parts {
		if n >= 128 {
			break
		}
		room := 128 - n
		if len(p) > room {
			p = p[:room]
		}
		n += copy(key[n:128], p)
	}

	var h, acc byte
	for i := 0; i < 128; i++ {
		h = roll(h)
		key[i] ^= h
		acc += key[i] * ((h & 1) + 2)
	}
	key[128] = acc

	return key
}

// roll advances the one-byte mixing hash used throughout key derivation and
// table generation: a 7-bit rotate expressed as shift-and-or.
func roll(h byte) byte {
	return (h << 7) | (h >> 1)
}

// Table is a derived 256-entry permutation used to generate an RC4-style keystream.
type Table struct {
	perm [256]uint32
	i, j byte
}

// baseLane is the four 32-bit lanes (0,1,2,3), each byte-broadcast across
// its own lane, that seeds the permutation before the key-driven mix runs.
var baseLane = [4]uint32{0x00000000, 0x01010101, 0x02020202, 0x03030303}

// GenerateTable builds the permutation table from a derived key and the
// era's magic byte. The second return value is false when the checksum
// embedded in the key (key[128], written by DeriveKey) does not match the
// accumulator recomputed during the mix — the caller should surface
// ErrDecryptFailed rather than trust the table.
func GenerateTable(key [256]byte, magic byte) (*Table, bool) {
	t := &Table{}
	for i := 0; i < 64; i++ {
		base := uint32(i * 4) //nolint:gosec // i bounded to [0,64)
		for lane := 0; lane < 4; lane++ {
			t.perm[4*i+lane] = baseLane[lane] + base
		}
	}

	hash := magic
	accum := magic
	matched := false
	keyIdx := 0
	var i2 byte

	for i := 0; i < 256; i++ {
		hash = roll(hash)
		if keyIdx > 255 {
			return t, false
		}
		if !matched {
			accum += key[keyIdx] * ((hash & 1) + 2)
		}
		if hash == key[keyIdx] {
			if !matched {
				if keyIdx+1 > 255 {
					return t, false
				}
				if accum != key[keyIdx+1] {
					return t, false
				}
				matched = true
			}
			hash = roll(magic)
			keyIdx = 0
		}

		i2 += (hash ^ key[keyIdx]) + byte(t.perm[i]) //nolint:gosec // intentional truncation, mirrors original C++ uint8_t accumulation
		t.perm[i], t.perm[int(i2)] = t.perm[int(i2)], t.perm[i]

		keyIdx++
	}

	return t, matched
}

// Decode runs the RC4-style PRGA over buf in place, advancing the table's
// running i/j indices so a single Table can decode a sequence of chunks
// sharing one keystream the way the original decoder carried state forward
// across calls within one game.
func (t *Table) Decode(buf []byte) {
	for k := range buf {
		t.i++
		t.j += byte(t.perm[t.i])
		t.perm[t.i], t.perm[t.j] = t.perm[t.j], t.perm[t.i]
		ks := t.perm[byte(t.perm[t.i])+byte(t.perm[t.j])]
		buf[k] ^= byte(ks)
	}
}

// DecodeChunk decrypts a mode-2/3 chunk body, additionally applying the
// leading byte-XOR-with-chunk-id preamble that eras 288 and later use when
// the chunk id is odd (the 284 layout never applies it).
func DecodeChunk(t *Table, buf []byte, chunkID uint16, applyPreamble bool) {
	if applyPreamble && chunkID%2 == 1 && len(buf) > 0 {
		buf[0] ^= byte(chunkID)
	}
	t.Decode(buf)
}
