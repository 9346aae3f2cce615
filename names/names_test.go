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

package names

import (
	"bytes"
	"encoding/binary"
	"testing"

	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/gameera"
)

func TestReadCStringOldEraASCII(t *testing.T) {
	t.Parallel()

	data := append([]byte("hello"), 0x00)
	r := bin.NewReader(bin.NewRootSpan(data))
	got, err := ReadCString(r, gameera.Old, true)
	if err != nil {
		t.Fatalf("ReadCString: %v", err)
	}
	if got != "hello" {
		t.Fatalf("ReadCString() = %q, want %q", got, "hello")
	}
}

func TestReadCStringUnicode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	for _, r := range "hi" {
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], uint16(r))
		buf.Write(tmp[:])
	}
	buf.Write([]byte{0x00, 0x00})

	r := bin.NewReader(bin.NewRootSpan(buf.Bytes()))
	got, err := ReadCString(r, gameera.V288, true)
	if err != nil {
		t.Fatalf("ReadCString: %v", err)
	}
	if got != "hi" {
		t.Fatalf("ReadCString() = %q, want %q", got, "hi")
	}
}

func TestReadCStringOldEraIgnoresUnicodeFlag(t *testing.T) {
	t.Parallel()

	data := append([]byte("ascii"), 0x00)
	r := bin.NewReader(bin.NewRootSpan(data))
	got, err := ReadCString(r, gameera.Old, true)
	if err != nil {
		t.Fatalf("ReadCString: %v", err)
	}
	if got != "ascii" {
		t.Fatalf("ReadCString() = %q, want %q (old era is never unicode)", got, "ascii")
	}
}

func TestReadFixedCStringRequiresTerminator(t *testing.T) {
	t.Parallel()

	data := []byte("ab")
	r := bin.NewReader(bin.NewRootSpan(data))
	if _, err := ReadFixedCString(r, gameera.Old, false, 2); err == nil {
		t.Fatalf("ReadFixedCString() succeeded on an unterminated fixed field")
	}
}
