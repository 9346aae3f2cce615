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
	"github.com/fusionforensics/ctfreader/internal/ctferrors"
	"github.com/fusionforensics/ctfreader/internal/gameera"
)

// GraphicsMode selects the pixel codec an image item's data block uses,
// matching ctf/defines.hpp's graphics_mode_t ordering.
type GraphicsMode byte

const (
	GraphicsModeRGBA32 GraphicsMode = 0
	GraphicsModeBGRA32 GraphicsMode = 1
	GraphicsModeRGB24  GraphicsMode = 2
	GraphicsModeBGR24  GraphicsMode = 3
	GraphicsModeRGB16  GraphicsMode = 4
	GraphicsModeRGB15  GraphicsMode = 5
	GraphicsModeRGB8   GraphicsMode = 6
	GraphicsModeJPEG   GraphicsMode = 7
)

// Image item flags.
const (
	ImageFlagRLE  byte = 0x01
	ImageFlagRLEW byte = 0x02
	ImageFlagRLET byte = 0x04
	ImageFlagLZX  byte = 0x08
	ImageFlagAlpha byte = 0x10
	ImageFlagAce  byte = 0x20
	ImageFlagMac  byte = 0x40
	ImageFlagRGBA byte = 0x80
)

// Point is a signed 2D coordinate, used for an image's hotspot and action point.
type Point struct{ X, Y int16 }

// Image is one image-bank item: its decoded header fields plus its pixel
// data span (still LZX-compressed when ImageFlagLZX is set, uninflated
// here — the image package performs the secondary inflate pass alongside
// the row codec since both need the same declared size).
type Image struct {
	Handle      uint32
	Checksum    uint32
	Reference   uint32
	DataSize    uint32 // declared uncompressed size of Data, from the original author
	Width       uint16
	Height      uint16
	Mode        GraphicsMode
	Flags       byte
	Hotspot     Point
	Action      Point
	Transparent uint32 // packed RGBA, only meaningful pre-16-bit-color modes; zero in old era
	Data        []byte
}

// readImageHead reads one item's fixed header fields (the "head[header_size]"
// portion of the item-entry grammar), grounded on image_bank.cpp's item_t
// field order: checksum, reference, data_size, size.x/y, graphics_mode,
// flags, [unknown, new era only], hotspot, action, [transparent, new era
// only].
func readImageHead(r *bin.Reader, era gameera.Era) (*Image, error) {
	img := &Image{}

	if era == gameera.Old {
		checksum, err := r.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("image checksum: %w", err)
		}
		img.Checksum = uint32(checksum)
	} else {
		checksum, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("image checksum: %w", err)
		}
		img.Checksum = checksum
	}

	reference, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("image reference: %w", err)
	}
	img.Reference = reference

	dataSize, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("image data size: %w", err)
	}
	img.DataSize = dataSize

	width, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("image width: %w", err)
	}
	img.Width = width
	height, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("image height: %w", err)
	}
	img.Height = height

	mode, err := r.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("image graphics mode: %w", err)
	}
	img.Mode = GraphicsMode(mode)

	flags, err := r.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("image flags: %w", err)
	}
	img.Flags = flags

	if era != gameera.Old {
		if _, err := r.ReadU16(); err != nil { // unknown, new era only
			return nil, fmt.Errorf("image unknown field: %w", err)
		}
	}

	hx, err := r.ReadS16()
	if err != nil {
		return nil, fmt.Errorf("image hotspot x: %w", err)
	}
	hy, err := r.ReadS16()
	if err != nil {
		return nil, fmt.Errorf("image hotspot y: %w", err)
	}
	img.Hotspot = Point{hx, hy}

	ax, err := r.ReadS16()
	if err != nil {
		return nil, fmt.Errorf("image action x: %w", err)
	}
	ay, err := r.ReadS16()
	if err != nil {
		return nil, fmt.Errorf("image action y: %w", err)
	}
	img.Action = Point{ax, ay}

	if era != gameera.Old {
		transparent, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("image transparent color: %w", err)
		}
		img.Transparent = transparent
	}

	return img, nil
}

// ReadImageBank reads a decoded image-bank chunk body: a u32 item count,
// that many image items, then an optional handles sentinel. Image data is
// always individually compressed by the authoring tool (unlike sound/music,
// which may store items raw), matching image_bank.cpp's unconditional
// entry.read(..., compressed=true).
//
// ccn-mode and the "optimised_image" build-time header variant are not
// replicated: both are acknowledged upstream as legacy/rare and fall
// outside this port's scope.
func ReadImageBank(r *bin.Reader, era gameera.Era, budget Budget) ([]*Image, []Failure, error) {
	count, err := readCount(r)
	if err != nil {
		return nil, nil, err
	}

	images := make([]*Image, 0, count)
	var failures []Failure
	for i := 0; i < count; i++ {
		img, err := readOneImage(r, era)
		if err != nil {
			failures = append(failures, Failure{Bank: "image", Index: i, Err: err})
			if budget.exhausted(len(failures)) {
				return images, failures, fmt.Errorf("image item %d: %w: %w", i, ctferrors.ErrBankFailBudget, err)
			}
			continue
		}
		images = append(images, img)
	}

	_ = peekHandlesSentinel(r) // left for the tree walker to consume as its own chunk

	return images, failures, nil
}

func readOneImage(r *bin.Reader, era gameera.Era) (*Image, error) {
	handle, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("image handle: %w", err)
	}

	img, err := readImageHead(r, era)
	if err != nil {
		return nil, err
	}
	img.Handle = handle

	data, err := readItemDataDeclared(r, int(img.DataSize))
	if err != nil {
		return nil, fmt.Errorf("image %#x data: %w", handle, err)
	}
	img.Data = data

	return img, nil
}
