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

func TestBudgetExhausted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		budget Budget
		fails  int
		want   bool
	}{
		{name: "no skip always exhausted", budget: Budget{SkipBrokenItems: false}, fails: 1, want: true},
		{name: "under max", budget: Budget{SkipBrokenItems: true, MaxFails: 3}, fails: 2, want: false},
		{name: "at max", budget: Budget{SkipBrokenItems: true, MaxFails: 3}, fails: 3, want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.budget.exhausted(tc.fails); got != tc.want {
				t.Errorf("exhausted(%d) = %v, want %v", tc.fails, got, tc.want)
			}
		})
	}
}

func TestUnicodeOldEraForcesASCII(t *testing.T) {
	t.Parallel()

	if unicode(gameera.Old, true) {
		t.Error("unicode(Old, true) = true, want false")
	}
	if unicode(gameera.V288, true) != true {
		t.Error("unicode(V288, true) = false, want true")
	}
	if unicode(gameera.V288, false) {
		t.Error("unicode(V288, false) = true, want false")
	}
}

func TestPeekHandlesSentinel(t *testing.T) {
	t.Parallel()

	var data []byte
	putU16(&data, handlesSentinelID)
	r := bin.NewReader(bin.NewRootSpan(data))
	if !peekHandlesSentinel(r) {
		t.Error("peekHandlesSentinel = false, want true")
	}
	if r.Position() != 0 {
		t.Errorf("peek consumed bytes: Position = %d, want 0", r.Position())
	}

	var other []byte
	putU16(&other, 0x1111)
	r2 := bin.NewReader(bin.NewRootSpan(other))
	if peekHandlesSentinel(r2) {
		t.Error("peekHandlesSentinel = true, want false")
	}
}
