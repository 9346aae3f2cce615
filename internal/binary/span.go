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

package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrOutOfData is returned when a read would run past the end of a span.
var ErrOutOfData = errors.New("out of data")

// ErrUnterminatedString is returned when a fixed-width string field never
// contains its required NUL terminator.
var ErrUnterminatedString = errors.New("fixed-width string missing NUL terminator")

// Span is a reference-counted view over a byte buffer. A span produced by
// decoding a chunk body (inflate/decrypt/LZ4) keeps a pointer at the region
// of its parent it was decoded from, so a position inside a deeply nested
// decoded body can still be translated back to an absolute file offset
// without the span storing that offset eagerly.
type Span struct {
	data   []byte
	parent *Span
	offset int // offset of data[0] within parent, only meaningful when parent != nil
}

// NewRootSpan wraps data as a span with no parent (the top of a provenance chain).
func NewRootSpan(data []byte) *Span {
	return &Span{data: data}
}

// Sub returns a child span covering data[off:off+n], retaining parent lineage.
func (s *Span) Sub(off, n int) (*Span, error) {
	if off < 0 || n < 0 || off+n > len(s.data) {
		return nil, fmt.Errorf("span sub [%d:%d] of length %d: %w", off, off+n, len(s.data), ErrOutOfData)
	}
	return &Span{data: s.data[off : off+n], parent: s, offset: off}, nil
}

// Bytes returns the raw bytes of the span. Callers must not mutate the result.
func (s *Span) Bytes() []byte {
	return s.data
}

// Len returns the number of bytes in the span.
func (s *Span) Len() int {
	return len(s.data)
}

// RootOffset sums ancestor offsets lazily to report this span's position in
// its ultimate root buffer, for forensic error messages.
func (s *Span) RootOffset() int {
	total := 0
	for cur := s; cur.parent != nil; cur = cur.parent {
		total += cur.offset
	}
	return total
}

// Root walks up the parent chain and returns the top-level span.
func (s *Span) Root() *Span {
	cur := s
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Reader is a cursor over a Span, providing little-endian integer reads and
// length-prefixed / NUL-terminated string reads, for data that has already
// been sliced out of a parent stream
// (decoded chunk bodies, decrypted payloads) rather than read fresh from an
// io.ReaderAt.
type Reader struct {
	span *Span
	pos  int
}

// NewReader creates a cursor positioned at the start of span.
func NewReader(span *Span) *Reader {
	return &Reader{span: span}
}

// Span returns the underlying span being read.
func (r *Reader) Span() *Span {
	return r.span
}

// Position returns the current cursor offset within the span.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return r.span.Len() - r.pos
}

// SeekTo moves the cursor to an absolute offset within the span.
func (r *Reader) SeekTo(pos int) error {
	if pos < 0 || pos > r.span.Len() {
		return fmt.Errorf("seek to %d in span of length %d: %w", pos, r.span.Len(), ErrOutOfData)
	}
	r.pos = pos
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	return r.SeekTo(r.pos + n)
}

func (r *Reader) outOfData(what string, n int) error {
	return fmt.Errorf("read %s (%d bytes) at span offset %d (root offset %d): %w",
		what, n, r.pos, r.span.RootOffset()+r.pos, ErrOutOfData)
}

// take advances the cursor by n bytes and returns the consumed slice.
func (r *Reader) take(n int, what string) ([]byte, error) {
	if r.pos+n > r.span.Len() {
		return nil, r.outOfData(what, n)
	}
	b := r.span.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 reads an unsigned 8-bit integer.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1, "u8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2, "u16")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4, "u32")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads a little-endian unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8, "u64")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadS16 reads a little-endian signed 16-bit integer.
func (r *Reader) ReadS16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err //nolint:gosec // intentional bit-pattern reinterpretation
}

// ReadS32 reads a little-endian signed 32-bit integer.
func (r *Reader) ReadS32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err //nolint:gosec // intentional bit-pattern reinterpretation
}

// PeekU8 reads a byte without advancing the cursor.
func (r *Reader) PeekU8() (uint8, error) {
	if r.pos+1 > r.span.Len() {
		return 0, r.outOfData("peek u8", 1)
	}
	return r.span.data[r.pos], nil
}

// PeekU16 reads a little-endian u16 without advancing the cursor.
func (r *Reader) PeekU16() (uint16, error) {
	if r.pos+2 > r.span.Len() {
		return 0, r.outOfData("peek u16", 2)
	}
	return binary.LittleEndian.Uint16(r.span.data[r.pos : r.pos+2]), nil
}

// PeekU32 reads a little-endian u32 without advancing the cursor.
func (r *Reader) PeekU32() (uint32, error) {
	if r.pos+4 > r.span.Len() {
		return 0, r.outOfData("peek u32", 4)
	}
	return binary.LittleEndian.Uint32(r.span.data[r.pos : r.pos+4]), nil
}

// ReadSpan advances the cursor by n bytes and returns them as a child span
// with parent lineage, for passing on to a nested decoder (inflate/keystream).
func (r *Reader) ReadSpan(n int) (*Span, error) {
	if r.pos+n > r.span.Len() {
		return nil, r.outOfData("span", n)
	}
	sub, err := r.span.Sub(r.pos, n)
	if err != nil {
		return nil, err
	}
	r.pos += n
	return sub, nil
}

// CopyRemaining returns a copy of all unread bytes without advancing the cursor.
func (r *Reader) CopyRemaining() []byte {
	out := make([]byte, r.Remaining())
	copy(out, r.span.data[r.pos:])
	return out
}

// Unit is the element width of a C-string, either a single byte or a UTF-16LE code unit.
type Unit interface {
	byte | uint16
}

// ReadCString reads elements of type T until a zero element (exclusive) or
// the span is exhausted, advancing the cursor past the terminator if present.
func ReadCString[T Unit](r *Reader) ([]T, error) {
	var out []T
	for {
		v, err := readUnit[T](r)
		if err != nil {
			return out, nil //nolint:nilerr // unterminated string at EOF is not an error, matches old-era tolerance
		}
		if v == 0 {
			return out, nil
		}
		out = append(out, v)
	}
}

// ReadExactCString reads exactly n elements of type T (a fixed-width field),
// then requires that one of those elements was a terminating zero, matching
// the fixed-width name-field convention used by several bank sub-chunks.
func ReadExactCString[T Unit](r *Reader, n int) ([]T, error) {
	out := make([]T, 0, n)
	terminated := false
	for range n {
		v, err := readUnit[T](r)
		if err != nil {
			return nil, err
		}
		if v == 0 {
			terminated = true
			continue
		}
		if !terminated {
			out = append(out, v)
		}
	}
	if !terminated {
		return nil, fmt.Errorf("fixed-width string of %d units: %w", n, ErrUnterminatedString)
	}
	return out, nil
}

func readUnit[T Unit](r *Reader) (T, error) {
	var z T
	switch any(z).(type) {
	case byte:
		v, err := r.ReadU8()
		return any(v).(T), err //nolint:forcetypeassert // T is constrained to byte|uint16
	case uint16:
		v, err := r.ReadU16()
		return any(v).(T), err //nolint:forcetypeassert // T is constrained to byte|uint16
	default:
		var zero T
		return zero, fmt.Errorf("unsupported c-string unit type")
	}
}
