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

package lz4block

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pierrec/lz4/v4"
)

func compressBlock(t *testing.T, payload []byte) []byte {
	t.Helper()
	dst := make([]byte, lz4.CompressBlockBound(len(payload)))
	var ht [1 << 16]int
	n, err := lz4.CompressBlock(payload, dst, ht[:])
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	if n == 0 {
		// incompressible input is stored literally by some lz4 implementations;
		// for this test's repetitive payload it should always compress.
		t.Fatalf("CompressBlock returned 0 (incompressible), choose a more repetitive payload")
	}

	out := make([]byte, 4+n)
	binary.LittleEndian.PutUint32(out[:4], uint32(len(payload)))
	copy(out[4:], dst[:n])
	return out
}

func TestDecode(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("compress me please compress me please"), 32)
	block := compressBlock(t, payload)

	got, err := Decode(block, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Decode() output mismatch, got %d bytes want %d", len(got), len(payload))
	}
}

func TestDecodeTruncatedHeader(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte{0x01, 0x02}, 0); err != ErrTruncatedHeader {
		t.Fatalf("Decode() error = %v, want ErrTruncatedHeader", err)
	}
}

func TestDecodeMaxSizeCap(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("x"), 1000)
	block := compressBlock(t, payload)

	got, err := Decode(block, 10)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) > 10 {
		t.Fatalf("len(got) = %d, want <= 10", len(got))
	}
}

func TestEncodedSize(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("y"), 256)
	block := compressBlock(t, payload)

	size, err := EncodedSize(block)
	if err != nil {
		t.Fatalf("EncodedSize: %v", err)
	}
	if size != len(payload) {
		t.Fatalf("EncodedSize() = %d, want %d", size, len(payload))
	}
}
