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
	"bytes"
	"compress/flate"
	"encoding/binary"
	"testing"

	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/gameera"
)

// deflateRaw produces a bare RFC1951 stream, matching what this port's
// inflate.DialectRaw expects and what the authoring tool actually writes.
func deflateRaw(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("flate write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("flate close: %v", err)
	}
	return buf.Bytes()
}

func putU32(buf *[]byte, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	*buf = append(*buf, b[:]...)
}

func putU16(buf *[]byte, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	*buf = append(*buf, b[:]...)
}

// putCompressedItem appends one entry_t item's trailing data block in the
// [declared_size][stored_size][stored bytes] shape readItemData expects
// when compressed is true.
func putCompressedItem(t *testing.T, buf *[]byte, plain []byte) {
	t.Helper()
	stored := deflateRaw(t, plain)
	putU32(buf, uint32(len(plain)))
	putU32(buf, uint32(len(stored)))
	*buf = append(*buf, stored...)
}

func putBasicItemHead(buf *[]byte, era gameera.Era, handle, checksum, reference uint32) {
	putU32(buf, handle)
	if era == gameera.Old {
		putU16(buf, uint16(checksum))
	} else {
		putU32(buf, checksum)
	}
	putU32(buf, reference)
}

func TestReadSoundBankReadsItems(t *testing.T) {
	t.Parallel()

	var data []byte
	putU32(&data, 2)
	putBasicItemHead(&data, gameera.V288, 1, 0xAAAA, 0)
	putCompressedItem(t, &data, []byte("riff-wav-bytes"))
	putBasicItemHead(&data, gameera.V288, 2, 0xBBBB, 0)
	putCompressedItem(t, &data, []byte("more-audio"))

	r := bin.NewReader(bin.NewRootSpan(data))
	sounds, failures, err := ReadSoundBank(r, gameera.V288, Budget{SkipBrokenItems: false})
	if err != nil {
		t.Fatalf("ReadSoundBank: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(sounds) != 2 {
		t.Fatalf("len(sounds) = %d, want 2", len(sounds))
	}
	if sounds[0].Handle != 1 || string(sounds[0].Data) != "riff-wav-bytes" {
		t.Fatalf("sounds[0] = %+v", sounds[0])
	}
	if sounds[1].Handle != 2 || string(sounds[1].Data) != "more-audio" {
		t.Fatalf("sounds[1] = %+v", sounds[1])
	}
}

func TestReadSoundBankOldEraUsesU16Checksum(t *testing.T) {
	t.Parallel()

	var data []byte
	putU32(&data, 1)
	putBasicItemHead(&data, gameera.Old, 7, 0x1234, 0)
	putCompressedItem(t, &data, []byte("x"))

	r := bin.NewReader(bin.NewRootSpan(data))
	sounds, _, err := ReadSoundBank(r, gameera.Old, Budget{SkipBrokenItems: false})
	if err != nil {
		t.Fatalf("ReadSoundBank: %v", err)
	}
	if len(sounds) != 1 || sounds[0].Checksum != 0x1234 {
		t.Fatalf("sounds = %+v", sounds)
	}
}

func TestReadSoundBankSkipsBrokenItemsUnderBudget(t *testing.T) {
	t.Parallel()

	var data []byte
	putU32(&data, 2)
	// First item claims more stored bytes than actually follow: truncated,
	// so ReadSpan fails and the item is skipped under the budget.
	putBasicItemHead(&data, gameera.V288, 1, 0, 0)
	putU32(&data, 4)   // declared_size
	putU32(&data, 100) // stored size, but no bytes follow
	// Second item is well-formed.
	putBasicItemHead(&data, gameera.V288, 2, 0, 0)
	putCompressedItem(t, &data, []byte("ok"))

	r := bin.NewReader(bin.NewRootSpan(data))
	sounds, failures, err := ReadSoundBank(r, gameera.V288, Budget{SkipBrokenItems: true, MaxFails: 3})
	if err != nil {
		t.Fatalf("ReadSoundBank: %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("len(failures) = %d, want 1", len(failures))
	}
	if len(sounds) != 1 || sounds[0].Handle != 2 {
		t.Fatalf("sounds = %+v", sounds)
	}
}
