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
	"github.com/fusionforensics/ctfreader/internal/keystream"
	"github.com/fusionforensics/ctfreader/names"
)

// Nested sub-chunk ids within an object bank item, duplicated from the tree
// package's table (banks must not import tree, which imports banks) per the
// same no-cross-dependency convention as container/pack.go's local magic
// constants.
const (
	objIDHeader     uint16 = 0x4444
	objIDName       uint16 = 0x4445
	objIDProperties uint16 = 0x4446
	objIDEffect     uint16 = 0x4448
	objIDLast       uint16 = 0x7F7F
)

// ObjectType mirrors the original engine's object_type_t discriminator
// (quick backdrop / backdrop / common object kinds, among others); only the
// handle/ink-effect header fields are modeled here, not the per-type
// quick_backdrop_t/backdrop_t/common_t payloads, which carry their own deep
// animation/shape sub-structures out of scope for this port.
type ObjectType uint16

// Object is one object-bank item: its header fields plus whichever of the
// known nested sub-chunks were present. Anything else encountered is kept
// as a raw span in Extra, keyed by sub-chunk id, rather than dropped.
type Object struct {
	Handle         uint16
	Type           ObjectType
	InkEffect      uint32
	InkEffectParam uint32
	Name           string
	PropertiesRaw  []byte
	EffectRaw      []byte
	Extra          map[uint16][]byte
}

// ReadObjectBank reads a decoded object-bank chunk body: a u32 item count,
// that many items (each a run of nested id/mode/size chunks terminated by
// objIDLast), then an optional handles sentinel.
func ReadObjectBank(r *bin.Reader, era gameera.Era, unicodeFlag bool, budget Budget) ([]*Object, []Failure, error) {
	count, err := readCount(r)
	if err != nil {
		return nil, nil, err
	}

	objects := make([]*Object, 0, count)
	var failures []Failure
	for i := 0; i < count; i++ {
		obj, err := readOneObject(r, era, unicodeFlag)
		if err != nil {
			failures = append(failures, Failure{Bank: "object", Index: i, Err: err})
			if budget.exhausted(len(failures)) {
				return objects, failures, fmt.Errorf("object item %d: %w", i, err)
			}
			continue
		}
		objects = append(objects, obj)
	}

	_ = peekHandlesSentinel(r)

	return objects, failures, nil
}

func readOneObject(r *bin.Reader, era gameera.Era, unicodeFlag bool) (*Object, error) {
	obj := &Object{Extra: map[uint16][]byte{}}

	header, err := chunk.ReadChunk(r, era)
	if err != nil {
		return nil, fmt.Errorf("object header chunk: %w", err)
	}
	if err := readObjectHeader(obj, header, era, unicodeFlag); err != nil {
		return nil, err
	}

	for {
		if r.Remaining() == 0 {
			return obj, nil
		}
		id, err := r.PeekU16()
		if err != nil {
			return obj, nil
		}
		if id == objIDLast {
			_, _ = chunk.ReadChunk(r, era) // consume the terminator
			return obj, nil
		}

		sub, err := chunk.ReadChunk(r, era)
		if err != nil {
			return nil, fmt.Errorf("object sub-chunk 0x%04X: %w", id, err)
		}
		body, err := sub.Body.DecodeBody(objectKeyProvider{}, era, sub.ID)
		if err != nil {
			return nil, fmt.Errorf("object sub-chunk 0x%04X decode: %w", id, err)
		}

		switch sub.ID {
		case objIDName:
			name, err := names.ReadCString(bin.NewReader(bin.NewRootSpan(body)), era, unicodeFlag)
			if err != nil {
				return nil, fmt.Errorf("object name: %w", err)
			}
			obj.Name = name
		case objIDProperties:
			obj.PropertiesRaw = body
		case objIDEffect:
			obj.EffectRaw = body
		default:
			obj.Extra[sub.ID] = body
		}
	}
}

func readObjectHeader(obj *Object, header *chunk.Chunk, era gameera.Era, unicodeFlag bool) error {
	body, err := header.Body.DecodeBody(objectKeyProvider{}, era, header.ID)
	if err != nil {
		return fmt.Errorf("object header decode: %w", err)
	}
	hr := bin.NewReader(bin.NewRootSpan(body))

	handle, err := hr.ReadU16()
	if err != nil {
		return fmt.Errorf("object handle: %w", err)
	}
	obj.Handle = handle

	objType, err := hr.ReadU16()
	if err != nil {
		return fmt.Errorf("object type: %w", err)
	}
	obj.Type = ObjectType(objType)

	ink, err := hr.ReadU32()
	if err != nil {
		return fmt.Errorf("object ink effect: %w", err)
	}
	obj.InkEffect = ink

	inkParam, err := hr.ReadU32()
	if err != nil {
		return fmt.Errorf("object ink effect param: %w", err)
	}
	obj.InkEffectParam = inkParam

	return nil
}

// objectKeyProvider is a fixed, no-keystream KeyProvider: object/frame
// sub-chunks are only ever seen already inside a decoded, plaintext bank
// body, so none of their nested chunks use mode 2/3 in practice. It exists
// so DecodeBody's signature can be satisfied without threading the whole
// parse Context down into this package.
type objectKeyProvider struct{}

func (objectKeyProvider) Table() (*keystream.Table, error) { return nil, errNoKeystreamHere }
func (objectKeyProvider) MaxOutputSize() int               { return 0 }
func (objectKeyProvider) Anaconda() bool                   { return false }
