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

	"github.com/fusionforensics/ctfreader/chunk"
	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/gameera"
	"github.com/fusionforensics/ctfreader/names"
)

// Nested sub-chunk ids within a frame bank item, duplicated from the tree
// package's table for the same reason as the object-bank ids in
// object_bank.go.
const (
	frameIDName            uint16 = 0x3335
	frameIDHeader          uint16 = 0x3334
	frameIDPalette         uint16 = 0x3337
	frameIDObjectInstances uint16 = 0x3338
	frameIDVirtualSize     uint16 = 0x3342
	frameIDLast            uint16 = 0x7F7F
)

// ObjectInstance places one object-bank handle within a frame, at a fixed
// position. This is the minimal subset of the original engine's much larger
// per-instance parent/layer/flag fields; everything beyond handle and
// position is skipped when the record is read and is not kept.
type ObjectInstance struct {
	Handle uint16
	X, Y   int32
}

// Frame is one frame-bank item. Layers, events, and the random-seed field
// are intentionally not modeled here (spec §4.G's Non-goals already exclude
// event-program interpretation); their raw sub-chunk bytes are retained in
// Extra for completeness rather than discarded.
type Frame struct {
	Name            string
	Width, Height   uint32
	PaletteRaw      []byte
	ObjectInstances []ObjectInstance
	Extra           map[uint16][]byte
}

// ReadFrameBank reads a decoded frame-bank chunk body: a u32 item count,
// that many frame items (each a run of nested id/mode/size chunks
// terminated by frameIDLast), then an optional handles sentinel.
func ReadFrameBank(r *bin.Reader, era gameera.Era, unicodeFlag bool, budget Budget) ([]*Frame, []Failure, error) {
	count, err := readCount(r)
	if err != nil {
		return nil, nil, err
	}

	frames := make([]*Frame, 0, count)
	var failures []Failure
	for i := 0; i < count; i++ {
		f, err := readOneFrame(r, era, unicodeFlag)
		if err != nil {
			failures = append(failures, Failure{Bank: "frame", Index: i, Err: err})
			if budget.exhausted(len(failures)) {
				return frames, failures, fmt.Errorf("frame item %d: %w", i, err)
			}
			continue
		}
		frames = append(frames, f)
	}

	_ = peekHandlesSentinel(r)

	return frames, failures, nil
}

// ReadFrameItem reads a single frame's nested sub-chunk stream directly,
// for the tree walker's bare-idFrame auto-synthesis path (a frame chunk
// seen outside an explicit frame-bank wrapper is still one frame item).
func ReadFrameItem(r *bin.Reader, era gameera.Era, unicodeFlag bool) (*Frame, error) {
	return readOneFrame(r, era, unicodeFlag)
}

func readOneFrame(r *bin.Reader, era gameera.Era, unicodeFlag bool) (*Frame, error) {
	f := &Frame{Extra: map[uint16][]byte{}}

	for {
		if r.Remaining() == 0 {
			return f, nil
		}
		id, err := r.PeekU16()
		if err != nil {
			return f, nil
		}
		if id == frameIDLast {
			_, _ = chunk.ReadChunk(r, era)
			return f, nil
		}

		sub, err := chunk.ReadChunk(r, era)
		if err != nil {
			return nil, fmt.Errorf("frame sub-chunk 0x%04X: %w", id, err)
		}
		body, err := sub.Body.DecodeBody(objectKeyProvider{}, era, sub.ID)
		if err != nil {
			return nil, fmt.Errorf("frame sub-chunk 0x%04X decode: %w", id, err)
		}

		switch sub.ID {
		case frameIDName:
			name, err := names.ReadCString(bin.NewReader(bin.NewRootSpan(body)), era, unicodeFlag)
			if err != nil {
				return nil, fmt.Errorf("frame name: %w", err)
			}
			f.Name = name
		case frameIDVirtualSize:
			vr := bin.NewReader(bin.NewRootSpan(body))
			w, err := vr.ReadU32()
			if err != nil {
				return nil, fmt.Errorf("frame virtual size width: %w", err)
			}
			h, err := vr.ReadU32()
			if err != nil {
				return nil, fmt.Errorf("frame virtual size height: %w", err)
			}
			f.Width, f.Height = w, h
		case frameIDPalette:
			f.PaletteRaw = body
		case frameIDObjectInstances:
			instances, err := readObjectInstances(body)
			if err != nil {
				return nil, fmt.Errorf("frame object instances: %w", err)
			}
			f.ObjectInstances = instances
		default:
			f.Extra[sub.ID] = body
		}
	}
}

// readObjectInstances reads a flat array of fixed-width placement records.
// The original engine's instance record carries several additional fields
// (parent handle, layer index, per-instance flags); only handle and
// position are extracted here, matching this port's scope decision to
// surface placement without full layer/parent graph reconstruction.
func readObjectInstances(body []byte) ([]ObjectInstance, error) {
	const recordSize = 20 // handle:u16 + pad:u16 + x:i32 + y:i32 + parent_type:u16 + parent:u16 + layer:u16 + pad:u16
	r := bin.NewReader(bin.NewRootSpan(body))
	var out []ObjectInstance
	for r.Remaining() >= recordSize {
		handle, err := r.ReadU16()
		if err != nil {
			return out, err
		}
		if _, err := r.ReadU16(); err != nil { // padding/unused
			return out, err
		}
		x, err := r.ReadS32()
		if err != nil {
			return out, err
		}
		y, err := r.ReadS32()
		if err != nil {
			return out, err
		}
		if err := r.Skip(8); err != nil { // parent_type, parent, layer, padding
			return out, err
		}
		out = append(out, ObjectInstance{Handle: handle, X: x, Y: y})
	}
	return out, nil
}
