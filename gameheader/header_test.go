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

package gameheader

import (
	"bytes"
	"encoding/binary"
	"testing"

	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/gameera"
)

// TestReadHeaderLegacyRoundTrip mirrors the specification's worked "legacy
// game header round-trip" example: PAME, product_code=0x0300 (MMF1),
// sub=0x0000, product=0x00010003, build=0x000000B7 (183) -> old era.
func TestReadHeaderLegacyRoundTrip(t *testing.T) {
	t.Parallel()

	data := []byte{0x50, 0x41, 0x4D, 0x45, 0x00, 0x03, 0x00, 0x00, 0x03, 0x01, 0x00, 0x00, 0xB7, 0x00, 0x00, 0x00}
	r := bin.NewReader(bin.NewRootSpan(data))

	dialect, ok, err := ReadMagic(r)
	if err != nil {
		t.Fatalf("ReadMagic: %v", err)
	}
	if !ok || dialect != DialectLegacy {
		t.Fatalf("ReadMagic() = (%v, %v), want (legacy, true)", dialect, ok)
	}

	h, err := ReadHeader(r, dialect, false, false)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.ProductCode != 0x0300 {
		t.Errorf("ProductCode = 0x%04X, want 0x0300", h.ProductCode)
	}
	if h.ProductBuild != 183 {
		t.Errorf("ProductBuild = %d, want 183", h.ProductBuild)
	}
	if h.Era != gameera.Old {
		t.Errorf("Era = %v, want Old", h.Era)
	}
	if h.Dialect.Unicode() {
		t.Errorf("Dialect.Unicode() = true, want false for PAME")
	}
}

func TestReadMagicMismatchLeavesCursor(t *testing.T) {
	t.Parallel()

	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	r := bin.NewReader(bin.NewRootSpan(data))

	_, ok, err := ReadMagic(r)
	if err != nil {
		t.Fatalf("ReadMagic: %v", err)
	}
	if ok {
		t.Fatalf("ReadMagic() matched an unrecognized magic")
	}
	if r.Position() != 0 {
		t.Fatalf("Position() = %d, want 0 (no consumption on a miss)", r.Position())
	}
}

func TestReadHeaderEraDerivation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		build       uint32
		oldGame     bool
		forceCompat bool
		wantEra     gameera.Era
		dialect     Dialect
	}{
		{"build below 284 is old", 100, false, false, gameera.Old, DialectUnicode},
		{"force_compat overrides a new build", 400, false, true, gameera.Old, DialectUnicode},
		{"old_game flag overrides a new build", 400, true, false, gameera.Old, DialectUnicode},
		{"build 284 is v284", 284, false, false, gameera.V284, DialectUnicode},
		{"build above 285 is v288", 400, false, false, gameera.V288, DialectUnicode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			var u16 [2]byte
			var u32 [4]byte
			binary.LittleEndian.PutUint16(u16[:], 0x0207)
			buf.Write(u16[:])
			binary.LittleEndian.PutUint16(u16[:], 1)
			buf.Write(u16[:])
			binary.LittleEndian.PutUint32(u32[:], 1)
			buf.Write(u32[:])
			binary.LittleEndian.PutUint32(u32[:], tt.build)
			buf.Write(u32[:])

			r := bin.NewReader(bin.NewRootSpan(buf.Bytes()))
			h, err := ReadHeader(r, tt.dialect, tt.oldGame, tt.forceCompat)
			if err != nil {
				t.Fatalf("ReadHeader: %v", err)
			}
			if h.Era != tt.wantEra {
				t.Errorf("Era = %v, want %v", h.Era, tt.wantEra)
			}
			if !h.IsCNC {
				t.Errorf("IsCNC = false, want true for product code 0x0207")
			}
		})
	}
}
