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

// Music is one music-bank item, laid out identically to Sound (the
// original engine shares its generic item entry across both banks, per
// basic.hpp; only the enclosing chunk id tells the two apart).
type Music struct {
	Handle    uint32
	Checksum  uint32
	Reference uint32
	Data      []byte
}

// ReadMusicBank reads a decoded music-bank chunk body: a u32 item count,
// that many music items, then an optional handles sentinel.
func ReadMusicBank(r *bin.Reader, era gameera.Era, budget Budget) ([]*Music, []Failure, error) {
	count, err := readCount(r)
	if err != nil {
		return nil, nil, err
	}

	tracks := make([]*Music, 0, count)
	var failures []Failure
	for i := 0; i < count; i++ {
		handle, checksum, reference, err := readBasicItemHead(r, era)
		if err == nil {
			data, dataErr := readItemData(r, true, 0)
			if dataErr != nil {
				err = fmt.Errorf("music %#x data: %w", handle, dataErr)
			} else {
				tracks = append(tracks, &Music{Handle: handle, Checksum: checksum, Reference: reference, Data: data})
			}
		}
		if err != nil {
			failures = append(failures, Failure{Bank: "music", Index: i, Err: err})
			if budget.exhausted(len(failures)) {
				return tracks, failures, fmt.Errorf("music item %d: %w", i, err)
			}
		}
	}

	_ = peekHandlesSentinel(r)

	return tracks, failures, nil
}
