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

package banks

import (
	"testing"

	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/gameera"
)

func putSubChunk(buf *[]byte, id uint16, body []byte) {
	putU16(buf, id)
	putU16(buf, 0) // raw mode
	putU32(buf, uint32(len(body)))
	*buf = append(*buf, body...)
}

func objectHeaderBody(handle, objType uint16, ink, inkParam uint32) []byte {
	var b []byte
	putU16(&b, handle)
	putU16(&b, objType)
	putU32(&b, ink)
	putU32(&b, inkParam)
	return b
}

func TestReadObjectBankReadsHeaderAndName(t *testing.T) {
	t.Parallel()

	var data []byte
	putU32(&data, 1)
	putSubChunk(&data, objIDHeader, objectHeaderBody(42, 3, 0, 0))
	putSubChunk(&data, objIDName, append([]byte("Player"), 0x00))
	putSubChunk(&data, objIDLast, nil)

	r := bin.NewReader(bin.NewRootSpan(data))
	objects, failures, err := ReadObjectBank(r, gameera.V288, false, Budget{SkipBrokenItems: false})
	if err != nil {
		t.Fatalf("ReadObjectBank: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(objects) != 1 {
		t.Fatalf("len(objects) = %d, want 1", len(objects))
	}
	obj := objects[0]
	if obj.Handle != 42 || obj.Type != 3 {
		t.Fatalf("object = %+v", obj)
	}
	if obj.Name != "Player" {
		t.Fatalf("Name = %q, want %q", obj.Name, "Player")
	}
}

func TestReadObjectBankKeepsUnknownSubChunksInExtra(t *testing.T) {
	t.Parallel()

	const idMystery uint16 = 0x4499

	var data []byte
	putU32(&data, 1)
	putSubChunk(&data, objIDHeader, objectHeaderBody(1, 0, 0, 0))
	putSubChunk(&data, idMystery, []byte{1, 2, 3})
	putSubChunk(&data, objIDLast, nil)

	r := bin.NewReader(bin.NewRootSpan(data))
	objects, _, err := ReadObjectBank(r, gameera.V288, false, Budget{SkipBrokenItems: false})
	if err != nil {
		t.Fatalf("ReadObjectBank: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("len(objects) = %d, want 1", len(objects))
	}
	extra, ok := objects[0].Extra[idMystery]
	if !ok {
		t.Fatal("Extra missing mystery sub-chunk")
	}
	if string(extra) != "\x01\x02\x03" {
		t.Fatalf("Extra[idMystery] = %q", extra)
	}
}
