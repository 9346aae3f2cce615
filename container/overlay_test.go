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

package container

import "testing"

func TestFindGameStartNonPE(t *testing.T) {
	t.Parallel()

	data := []byte{0x50, 0x41, 0x4D, 0x45, 0x00, 0x03, 0x00, 0x00} // PAME ...
	got, err := FindGameStart(data)
	if err != nil {
		t.Fatalf("FindGameStart: %v", err)
	}
	if got != 0 {
		t.Fatalf("FindGameStart() = %d, want 0 for a non-PE payload", got)
	}
}

func TestFindGameStartEmpty(t *testing.T) {
	t.Parallel()

	got, err := FindGameStart(nil)
	if err != nil {
		t.Fatalf("FindGameStart: %v", err)
	}
	if got != 0 {
		t.Fatalf("FindGameStart() = %d, want 0 for empty input", got)
	}
}
