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

func TestReadFontBankGeneric(t *testing.T) {
	t.Parallel()

	var data []byte
	putU32(&data, 1)
	putBasicItemHead(&data, gameera.V288, 3, 0x11, 0)
	putCompressedItem(t, &data, []byte("font-blob"))

	r := bin.NewReader(bin.NewRootSpan(data))
	fonts, failures, err := ReadFontBank(r, gameera.V288, false, Budget{SkipBrokenItems: false})
	if err != nil {
		t.Fatalf("ReadFontBank: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(fonts) != 1 || fonts[0].Handle != 3 || string(fonts[0].Data) != "font-blob" {
		t.Fatalf("fonts = %+v", fonts)
	}
}

func TestReadFontBankCRUFLogFont(t *testing.T) {
	t.Parallel()

	var data []byte
	putU32(&data, 1)
	putBasicItemHead(&data, gameera.V288, 1, 0, 0)
	putU32(&data, 16)         // height
	putU32(&data, 8)          // width
	putU32(&data, 0)          // escapement
	putU32(&data, 0)          // orientation
	putU32(&data, 700)        // weight
	data = append(data, 1)    // italic
	data = append(data, 0)    // underline
	data = append(data, 0)    // strikeout
	data = append(data, 0)    // charset
	data = append(data, 0)    // out_precision
	data = append(data, 0)    // clip_precision
	data = append(data, 0)    // quality
	data = append(data, 0)    // pitch_and_family

	face := make([]byte, 32)
	copy(face, "Arial")
	data = append(data, face...)

	r := bin.NewReader(bin.NewRootSpan(data))
	fonts, failures, err := ReadFontBank(r, gameera.V288, true, Budget{SkipBrokenItems: false})
	if err != nil {
		t.Fatalf("ReadFontBank: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(fonts) != 1 {
		t.Fatalf("len(fonts) = %d, want 1", len(fonts))
	}
	f := fonts[0]
	if f.Height != 16 || f.Width != 8 || f.Weight != 700 {
		t.Fatalf("dimensions = %+v", f)
	}
	if !f.Italic {
		t.Fatal("Italic = false, want true")
	}
	if f.FaceName != "Arial" {
		t.Fatalf("FaceName = %q, want %q", f.FaceName, "Arial")
	}
}
