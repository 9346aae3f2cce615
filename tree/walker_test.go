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

package tree

import (
	"encoding/binary"
	"testing"

	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/gameera"
	"github.com/fusionforensics/ctfreader/internal/keystream"
)

type stubKeyProvider struct{}

func (stubKeyProvider) Table() (*keystream.Table, error) { return nil, nil }
func (stubKeyProvider) MaxOutputSize() int                { return 0 }
func (stubKeyProvider) Anaconda() bool                    { return false }

func putChunk(buf *[]byte, id uint16, mode uint16, body []byte) {
	var head [8]byte
	binary.LittleEndian.PutUint16(head[0:2], id)
	binary.LittleEndian.PutUint16(head[2:4], mode)
	binary.LittleEndian.PutUint32(head[4:8], uint32(len(body)))
	*buf = append(*buf, head[:]...)
	*buf = append(*buf, body...)
}

func TestWalkReadsTitleThenStops(t *testing.T) {
	t.Parallel()

	var data []byte
	putChunk(&data, idTitle, 0, append([]byte("My Game"), 0x00))
	putChunk(&data, idLast, 0, nil)

	r := bin.NewReader(bin.NewRootSpan(data))
	res, err := Walk(r, stubKeyProvider{}, Config{Era: gameera.V288}, nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if res.Title != "My Game" {
		t.Fatalf("Title = %q, want %q", res.Title, "My Game")
	}
}

func TestWalkStopsAtEmptyStreamWithoutLast(t *testing.T) {
	t.Parallel()

	var data []byte
	putChunk(&data, idTitle, 0, append([]byte("X"), 0x00))

	r := bin.NewReader(bin.NewRootSpan(data))
	res, err := Walk(r, stubKeyProvider{}, Config{Era: gameera.V288}, nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if res.Title != "X" {
		t.Fatalf("Title = %q, want %q", res.Title, "X")
	}
}
