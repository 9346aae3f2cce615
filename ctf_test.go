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

package ctfreader

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// testMagicPAME is the legacy (non-unicode) dialect magic, used throughout
// so title bytes can stay plain ASCII regardless of which era a test picks
// via its product_build value.
const (
	testMagicPAME uint32 = 0x454D4150
	testIDTitle   uint16 = 0x2224
	testIDLast    uint16 = 0x7F7F
	testModeRaw   uint16 = 0
)

func putU16(buf *[]byte, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	*buf = append(*buf, b[:]...)
}

func putU32(buf *[]byte, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	*buf = append(*buf, b[:]...)
}

func putChunk(buf *[]byte, id, mode uint16, body []byte) {
	putU16(buf, id)
	putU16(buf, mode)
	putU32(buf, uint32(len(body)))
	*buf = append(*buf, body...)
}

// minimalGame builds a tiny legacy-dialect, no-archive, no-PE-overlay game
// stream: magic + header fields + a title chunk + the terminating sentinel.
func minimalGame(build uint32) []byte {
	var data []byte
	putU32(&data, testMagicPAME)
	putU16(&data, 0)     // product_code
	putU16(&data, 0)     // runtime_sub_version
	putU32(&data, 0)     // product_version
	putU32(&data, build) // product_build

	putChunk(&data, testIDTitle, testModeRaw, append([]byte("Test Game"), 0x00))
	putChunk(&data, testIDLast, testModeRaw, nil)
	return data
}

func TestParseBytesReadsTitle(t *testing.T) {
	t.Parallel()

	data := minimalGame(300)
	game, err := ParseBytes(data, DefaultConfig())
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	if game.Title != "Test Game" {
		t.Fatalf("Title = %q, want %q", game.Title, "Test Game")
	}
	if game.Era != EraV288 {
		t.Fatalf("Era = %v, want %v", game.Era, EraV288)
	}
}

func TestParseBytesRejectsMissingMagic(t *testing.T) {
	t.Parallel()

	data := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	if _, err := ParseBytes(data, DefaultConfig()); err == nil {
		t.Fatalf("ParseBytes: expected error on missing magic, got nil")
	}
}

func TestParseReadsFileFromDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "game.dat")
	if err := os.WriteFile(path, minimalGame(200), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := DefaultConfig()
	cfg.ArchiveExtraction = false
	game, err := Parse(path, cfg)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if game.Title != "Test Game" {
		t.Fatalf("Title = %q, want %q", game.Title, "Test Game")
	}
	if game.Era != EraOld {
		t.Fatalf("Era = %v, want %v", game.Era, EraOld)
	}
}
