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
	"fmt"

	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/gameera"
)

// logFontBodySize is the byte width of the CRUF dialect's fixed LOGFONT-like
// font item body: height, width, escapement, orientation, weight (4 each),
// italic, underline, strikeout, charset, out_precision, clip_precision,
// quality, pitch_and_family (1 each), then a 32-byte face name.
const logFontBodySize = 5*4 + 8 + 32

// Font is one font-bank item. CRUF games carry a Windows LOGFONT-shaped
// descriptor directly; everything else carries the generic
// checksum/reference/opaque-data shape shared with sound and music.
type Font struct {
	Handle    uint32
	Checksum  uint32
	Reference uint32
	Data      []byte // opaque for non-CRUF games

	// LOGFONT fields, populated only when read under the CRUF dialect.
	Height, Width         int32
	Escapement            int32
	Orientation           int32
	Weight                int32
	Italic, Underline     bool
	Strikeout             bool
	Charset               byte
	OutPrecision          byte
	ClipPrecision         byte
	Quality               byte
	PitchAndFamily        byte
	FaceName              string
}

// ReadFontBank reads a decoded font-bank chunk body: a u32 item count, that
// many font items, then an optional handles sentinel. cruf selects between
// the fixed LOGFONT item layout and the generic sound/music-style layout.
func ReadFontBank(r *bin.Reader, era gameera.Era, cruf bool, budget Budget) ([]*Font, []Failure, error) {
	count, err := readCount(r)
	if err != nil {
		return nil, nil, err
	}

	fonts := make([]*Font, 0, count)
	var failures []Failure
	for i := 0; i < count; i++ {
		var f *Font
		var err error
		if cruf {
			f, err = readOneFontCRUF(r)
		} else {
			f, err = readOneFontGeneric(r, era)
		}
		if err != nil {
			failures = append(failures, Failure{Bank: "font", Index: i, Err: err})
			if budget.exhausted(len(failures)) {
				return fonts, failures, fmt.Errorf("font item %d: %w", i, err)
			}
			continue
		}
		fonts = append(fonts, f)
	}

	_ = peekHandlesSentinel(r)

	return fonts, failures, nil
}

func readOneFontGeneric(r *bin.Reader, era gameera.Era) (*Font, error) {
	handle, checksum, reference, err := readBasicItemHead(r, era)
	if err != nil {
		return nil, err
	}
	data, err := readItemData(r, true, 0)
	if err != nil {
		return nil, fmt.Errorf("font %#x data: %w", handle, err)
	}
	return &Font{Handle: handle, Checksum: checksum, Reference: reference, Data: data}, nil
}

func readOneFontCRUF(r *bin.Reader) (*Font, error) {
	handle, checksum, reference, err := readBasicItemHead(r, gameera.V288)
	if err != nil {
		return nil, err
	}

	start := r.Position()
	f := &Font{Handle: handle, Checksum: checksum, Reference: reference}

	readI32 := func() int32 {
		if err != nil {
			return 0
		}
		var v uint32
		v, err = r.ReadU32()
		return int32(v) //nolint:gosec // intentional bit-pattern reinterpretation
	}
	readU8 := func() byte {
		if err != nil {
			return 0
		}
		var v byte
		v, err = r.ReadU8()
		return v
	}

	f.Height = readI32()
	f.Width = readI32()
	f.Escapement = readI32()
	f.Orientation = readI32()
	f.Weight = readI32()
	f.Italic = readU8() != 0
	f.Underline = readU8() != 0
	f.Strikeout = readU8() != 0
	f.Charset = readU8()
	f.OutPrecision = readU8()
	f.ClipPrecision = readU8()
	f.Quality = readU8()
	f.PitchAndFamily = readU8()
	if err != nil {
		return nil, fmt.Errorf("font %#x logfont fields: %w", handle, err)
	}

	if r.Position()-start > logFontBodySize-32 {
		return nil, fmt.Errorf("font %#x logfont fields overran fixed body size", handle)
	}
	faceBytes, err := r.ReadSpan(logFontBodySize - (r.Position() - start))
	if err != nil {
		return nil, fmt.Errorf("font %#x face name: %w", handle, err)
	}
	f.FaceName = bin.CleanString(faceBytes.Bytes())

	return f, nil
}
