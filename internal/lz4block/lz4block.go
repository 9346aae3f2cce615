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

// Package lz4block decodes the headerless LZ4 block format used by mode-4
// chunk bodies: a little-endian uint32 giving the decompressed size,
// followed by a raw LZ4 block (no frame magic, no block checksums) as
// written by the authoring tool's bundled LZ4 encoder. It delegates the
// actual block decode to pierrec/lz4, the same library the CHD codec
// registry in the teacher repo used for its own LZ4-family hunks.
package lz4block

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// ErrTruncatedHeader is returned when fewer than 4 bytes are available for
// the leading decompressed-size prefix.
var ErrTruncatedHeader = errors.New("lz4 block: truncated size prefix")

// ErrSizeMismatch is returned when the block decodes to fewer bytes than the
// header promised and the shortfall wasn't explained by a maxSize cap.
var ErrSizeMismatch = errors.New("lz4 block: decoded size does not match header")

// Decode decompresses a headerless LZ4 block prefixed with a 4-byte
// little-endian decompressed size. The block is always decoded in full
// first — pierrec/lz4 requires its destination buffer sized to the actual
// decompressed length — and the result is then truncated to maxSize if
// given (<= 0 means unbounded), matching the bounded-output contract shared
// with the inflate and keystream decoders.
func Decode(src []byte, maxSize int) ([]byte, error) {
	if len(src) < 4 {
		return nil, ErrTruncatedHeader
	}
	size := int(binary.LittleEndian.Uint32(src[:4]))
	if size < 0 {
		return nil, fmt.Errorf("lz4 block: negative decompressed size: %w", ErrSizeMismatch)
	}

	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(src[4:], dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 block: %w", err)
	}
	if n != size {
		return nil, fmt.Errorf("lz4 block: decoded %d of %d bytes: %w", n, size, ErrSizeMismatch)
	}
	out := dst[:n]
	if maxSize > 0 && len(out) > maxSize {
		out = out[:maxSize]
	}
	return out, nil
}

// EncodedSize reports the decompressed size a block's header declares,
// without performing the decode, for callers that only need to budget output
// buffers ahead of time.
func EncodedSize(src []byte) (int, error) {
	if len(src) < 4 {
		return 0, ErrTruncatedHeader
	}
	return int(binary.LittleEndian.Uint32(src[:4])), nil
}
