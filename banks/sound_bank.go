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

// Sound is one sound-bank item: a handle, checksum, and an opaque audio
// blob (WAV/MP3/OGG, left for a caller to sniff by container magic — this
// port does not re-derive codec metadata from raw audio bytes).
type Sound struct {
	Handle    uint32
	Checksum  uint32
	Reference uint32
	Data      []byte
}

// readBasicItemHead reads the generic entry_t header shared by the
// sound/music/font banks, grounded on basic.hpp's item_entry_t: a handle,
// then a checksum and reference back-pointer, with no per-item dimension
// or mode fields the way image items carry.
func readBasicItemHead(r *bin.Reader, era gameera.Era) (handle, checksum, reference uint32, err error) {
	h, err := r.ReadU32()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("item handle: %w", err)
	}
	if era == gameera.Old {
		c, err := r.ReadU16()
		if err != nil {
			return 0, 0, 0, fmt.Errorf("item checksum: %w", err)
		}
		checksum = uint32(c)
	} else {
		c, err := r.ReadU32()
		if err != nil {
			return 0, 0, 0, fmt.Errorf("item checksum: %w", err)
		}
		checksum = c
	}
	ref, err := r.ReadU32()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("item reference: %w", err)
	}
	return h, checksum, ref, nil
}

// ReadSoundBank reads a decoded sound-bank chunk body: a u32 item count,
// that many sound items, then an optional handles sentinel.
func ReadSoundBank(r *bin.Reader, era gameera.Era, budget Budget) ([]*Sound, []Failure, error) {
	count, err := readCount(r)
	if err != nil {
		return nil, nil, err
	}

	sounds := make([]*Sound, 0, count)
	var failures []Failure
	for i := 0; i < count; i++ {
		handle, checksum, reference, err := readBasicItemHead(r, era)
		if err == nil {
			data, dataErr := readItemData(r, true, 0)
			if dataErr != nil {
				err = fmt.Errorf("sound %#x data: %w", handle, dataErr)
			} else {
				sounds = append(sounds, &Sound{Handle: handle, Checksum: checksum, Reference: reference, Data: data})
			}
		}
		if err != nil {
			failures = append(failures, Failure{Bank: "sound", Index: i, Err: err})
			if budget.exhausted(len(failures)) {
				return sounds, failures, fmt.Errorf("sound item %d: %w", i, err)
			}
		}
	}

	_ = peekHandlesSentinel(r)

	return sounds, failures, nil
}
