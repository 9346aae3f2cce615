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

// Package chunk reads a single chunk header plus its body and decodes the
// body lazily according to its encoding mode, mirroring the teacher's CHD
// hunk/codec-dispatch shape (chd/hunk.go) retargeted from CHD's four
// compression codecs onto this format's five chunk encoding modes.
package chunk

import (
	"encoding/binary"
	"fmt"

	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/ctferrors"
	"github.com/fusionforensics/ctfreader/internal/gameera"
	"github.com/fusionforensics/ctfreader/internal/inflate"
	"github.com/fusionforensics/ctfreader/internal/keystream"
	"github.com/fusionforensics/ctfreader/internal/lz4block"
)

// Mode is a chunk body's encoding.
type Mode uint16

const (
	ModeRaw              Mode = 0
	ModeDeflate          Mode = 1
	ModeKeystream        Mode = 2
	ModeKeystreamDeflate Mode = 3
	ModeLZ4              Mode = 4
)

func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	case ModeDeflate:
		return "deflate"
	case ModeKeystream:
		return "keystream"
	case ModeKeystreamDeflate:
		return "keystream+deflate"
	case ModeLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("mode(%d)", uint16(m))
	}
}

// KeyProvider is the minimal surface DecodeBody needs from the parse
// context: the lazily-derived keystream table, a bound on decoded output
// size, and the raw-deflate dialect compatibility flag. The root package's
// Context satisfies this structurally without chunk importing it.
type KeyProvider interface {
	Table() (*keystream.Table, error)
	MaxOutputSize() int
	Anaconda() bool
}

// Body is the as-read, possibly still-encoded payload of a chunk or bank
// item entry, plus whatever size hint its layout carried.
type Body struct {
	mode         Mode
	raw          *bin.Span
	declaredSize int // -1 when the layout carries no upfront/trailing size hint
}

// DecodeBody produces the plaintext bytes of a body per its mode. xorID is
// the value XORed into the leading byte of a keystream body when the era's
// preamble rule applies (the containing Chunk's id for top-level chunks;
// bank item entries that have no id of their own pass 0, which is always
// even and so never triggers the preamble).
//
// A mode-1 body whose deflate stream is malformed returns an error wrapping
// inflate.ErrInflateFailed; it does not fall back to the raw bytes.
func (b *Body) DecodeBody(kp KeyProvider, era gameera.Era, xorID uint16) ([]byte, error) {
	maxSize := b.declaredSize
	if maxSize <= 0 {
		maxSize = kp.MaxOutputSize()
	}

	switch b.mode {
	case ModeRaw:
		return inflate.GuessInflate(b.raw.Bytes(), maxSize), nil

	case ModeDeflate:
		out, _, err := inflate.Inflate(b.raw.Bytes(), inflate.DialectRaw, kp.Anaconda(), maxSize)
		if err != nil {
			return nil, fmt.Errorf("mode %s: %w", b.mode, err)
		}
		return out, nil

	case ModeKeystream:
		table, err := kp.Table()
		if err != nil {
			return nil, fmt.Errorf("mode %s: %w", b.mode, err)
		}
		buf := append([]byte(nil), b.raw.Bytes()...)
		keystream.DecodeChunk(table, buf, xorID, era.KeystreamPreamble())
		return buf, nil

	case ModeKeystreamDeflate:
		data := b.raw.Bytes()
		if len(data) < 4 {
			return nil, fmt.Errorf("mode %s: body shorter than its size prefix: %w", b.mode, ctferrors.ErrInvalidChunk)
		}
		declared := int(binary.LittleEndian.Uint32(data[:4]))
		table, err := kp.Table()
		if err != nil {
			return nil, fmt.Errorf("mode %s: %w", b.mode, err)
		}
		buf := append([]byte(nil), data[4:]...)
		keystream.DecodeChunk(table, buf, xorID, era.KeystreamPreamble())

		if declared > 0 && (maxSize <= 0 || declared < maxSize) {
			maxSize = declared
		}
		out, _, err := inflate.Inflate(buf, inflate.DialectRaw, kp.Anaconda(), maxSize)
		if err != nil {
			return nil, fmt.Errorf("mode %s: %w", b.mode, err)
		}
		return out, nil

	case ModeLZ4:
		out, err := lz4block.Decode(b.raw.Bytes(), maxSize)
		if err != nil {
			return nil, fmt.Errorf("mode %s: %w", b.mode, err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %d", ctferrors.ErrNoModeDecoder, uint16(b.mode))
	}
}

// Raw returns the body exactly as read from the stream, before any decode.
func (b *Body) Raw() *bin.Span { return b.raw }

// Mode reports the body's encoding.
func (b *Body) Mode() Mode { return b.mode }

// Chunk is one top-level chunk: a 2-byte id, 2-byte mode, and an
// encoding-dependent body, all covered by SourceSpan.
type Chunk struct {
	ID         uint16
	Body       Body
	SourceSpan *bin.Span
}

// ReadChunk reads one chunk header and its body from r, positioned at the
// header's first byte, per the grammar in §4.E: id:u16, mode:u16, size:u32,
// then a mode-dependent body layout.
func ReadChunk(r *bin.Reader, era gameera.Era) (*Chunk, error) {
	start := r.Position()

	id, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("chunk id: %w", err)
	}
	modeRaw, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("chunk mode: %w", err)
	}
	size, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("chunk size: %w", err)
	}

	body, err := readBody(r, Mode(modeRaw), era, int(size))
	if err != nil {
		return nil, fmt.Errorf("chunk 0x%04X body: %w", id, err)
	}

	span, err := r.Span().Sub(start, r.Position()-start)
	if err != nil {
		return nil, fmt.Errorf("chunk 0x%04X source span: %w", id, err)
	}

	return &Chunk{ID: id, Body: *body, SourceSpan: span}, nil
}

// ReadItemBody reads a bank item entry's encoded body (no id field — banks
// identify entries by handle), sharing the same mode/size grammar as a
// top-level chunk.
func ReadItemBody(r *bin.Reader, mode Mode, era gameera.Era, size int) (*Body, error) {
	return readBody(r, mode, era, size)
}

// readBody implements the five encoding-mode body layouts shared by Chunk
// and bank item entries.
func readBody(r *bin.Reader, mode Mode, era gameera.Era, size int) (*Body, error) {
	switch mode {
	case ModeRaw, ModeKeystream, ModeKeystreamDeflate, ModeLZ4:
		raw, err := r.ReadSpan(size)
		if err != nil {
			return nil, err
		}
		return &Body{mode: mode, raw: raw, declaredSize: -1}, nil

	case ModeDeflate:
		if era == gameera.Old {
			raw, err := r.ReadSpan(size)
			if err != nil {
				return nil, err
			}
			declared, err := r.ReadU32()
			if err != nil {
				return nil, err
			}
			return &Body{mode: mode, raw: raw, declaredSize: int(declared)}, nil
		}

		bodyStart := r.Position()
		declaredUncompressedSize, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		dataSize, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		data, err := r.ReadSpan(int(dataSize))
		if err != nil {
			return nil, err
		}

		expectedEnd := bodyStart + size
		if r.Position() != expectedEnd {
			if err := r.SeekTo(expectedEnd); err != nil {
				return nil, fmt.Errorf("end-of-chunk reposition guard: %w", err)
			}
		}
		return &Body{mode: mode, raw: data, declaredSize: int(declaredUncompressedSize)}, nil

	default:
		return nil, fmt.Errorf("%w: %d", ctferrors.ErrInvalidMode, uint16(mode))
	}
}
