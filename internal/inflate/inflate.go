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

// Package inflate provides the DEFLATE decoder used by mode-1 (and the
// LZX-flagged image pixel stream) chunk bodies. It wraps klauspost/compress's
// flate implementation — already a teacher dependency for the CHD zstd codec —
// behind a small contract matching the original engine's two header dialects
// plus a bounded output size, rather than exposing a raw io.Reader.
package inflate

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// Dialect selects the DEFLATE stream framing.
type Dialect int

const (
	// DialectRaw is a bare RFC1951 deflate stream with no zlib wrapper.
	// This is what the authoring tool actually writes for mode-1 chunks.
	DialectRaw Dialect = iota
	// DialectZlib is an RFC1950-wrapped stream (2-byte header + Adler32 trailer).
	DialectZlib
)

// ErrInflateFailed wraps a malformed DEFLATE bitstream.
var ErrInflateFailed = errors.New("inflate failed")

// countingReader tracks how many bytes have been pulled from the underlying
// reader, so callers that share a single cursor across a compressed region
// embedded in a larger stream can reposition past exactly what was consumed.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

// Inflate decompresses src under the given dialect, writing at most maxSize
// bytes of output. If maxSize is reached before the stream ends, that is not
// an error: the truncated buffer is returned with a nil error (spec §8
// boundary behaviour — the caller asked for a cap, not a guarantee of
// wholeness). maxSize <= 0 means unbounded.
//
// The anaconda flag widens acceptance to a known non-conforming raw-deflate
// variant emitted by some builds of the authoring tool, which occasionally
// write an over-long final stored block length; klauspost/compress's flate
// reader already tolerates this case the same way the reference zlib library
// does, so the flag currently only documents intent and is reserved for a
// stricter validation pass should a corpus surface a divergence it doesn't
// cover.
func Inflate(src []byte, dialect Dialect, anaconda bool, maxSize int) ([]byte, int, error) {
	_ = anaconda // see doc comment: reserved for stricter dialect validation

	cr := &countingReader{r: bytes.NewReader(src)}

	var rc io.ReadCloser
	switch dialect {
	case DialectZlib:
		zr, err := zlib.NewReader(cr)
		if err != nil {
			return nil, 0, fmt.Errorf("zlib header: %w: %w", ErrInflateFailed, err)
		}
		rc = zr
	case DialectRaw:
		rc = flate.NewReader(cr)
	default:
		return nil, 0, fmt.Errorf("unknown dialect %d: %w", dialect, ErrInflateFailed)
	}
	defer func() { _ = rc.Close() }()

	var out bytes.Buffer
	var limited io.Reader = rc
	if maxSize > 0 {
		limited = io.LimitReader(rc, int64(maxSize))
	}

	_, err := io.Copy(&out, limited)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, cr.n, fmt.Errorf("%w: %w", ErrInflateFailed, err)
	}

	return out.Bytes(), cr.n, nil
}

// GuessInflate speculatively inflates a mode-0 body that begins with 0x78
// (the zlib header's common first byte); on any failure the original bytes
// are returned unchanged rather than an error, matching data produced by the
// authoring tool for some mode-0 chunks (spec §4.E / §8 boundary behaviour).
func GuessInflate(src []byte, maxSize int) []byte {
	if len(src) == 0 || src[0] != 0x78 {
		return src
	}
	out, _, err := Inflate(src, DialectZlib, false, maxSize)
	if err != nil || len(out) == 0 {
		return src
	}
	return out
}
