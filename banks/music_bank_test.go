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

func TestReadMusicBankReadsItems(t *testing.T) {
	t.Parallel()

	var data []byte
	putU32(&data, 1)
	putBasicItemHead(&data, gameera.V288, 9, 0x55, 0)
	putCompressedItem(t, &data, []byte("track-bytes"))

	r := bin.NewReader(bin.NewRootSpan(data))
	tracks, failures, err := ReadMusicBank(r, gameera.V288, Budget{SkipBrokenItems: false})
	if err != nil {
		t.Fatalf("ReadMusicBank: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(tracks) != 1 || tracks[0].Handle != 9 || string(tracks[0].Data) != "track-bytes" {
		t.Fatalf("tracks = %+v", tracks)
	}
}

func TestReadMusicBankAbortsWithoutSkipBrokenItems(t *testing.T) {
	t.Parallel()

	var data []byte
	putU32(&data, 1)
	putBasicItemHead(&data, gameera.V288, 1, 0, 0)
	putU32(&data, 4)
	putU32(&data, 100) // stored size, but no bytes follow

	r := bin.NewReader(bin.NewRootSpan(data))
	_, _, err := ReadMusicBank(r, gameera.V288, Budget{SkipBrokenItems: false})
	if err == nil {
		t.Fatal("ReadMusicBank: want error, got nil")
	}
}
