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
	"math"
	"sync/atomic"
)

// Progress is a completed-fraction slot the tree walker writes into after
// each top-level chunk and a caller-owned UI reads concurrently, adapted
// from the teacher's HunkMap.cacheMu-guarded map down to a single lock-free
// word: there is exactly one writer (the walker) and any number of readers,
// so a mutex-guarded map is more machinery than this needs.
type Progress struct {
	bits atomic.Uint64
}

// Store records a new completed fraction in [0,1].
func (p *Progress) Store(f float64) {
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	p.bits.Store(math.Float64bits(f))
}

// Load returns the most recently stored fraction, or 0 before the first Store.
func (p *Progress) Load() float64 {
	return math.Float64frombits(p.bits.Load())
}

// CancelFunc is polled by the tree walker between top-level chunks; a true
// return discards the in-progress Game and the parse returns ErrCancelled.
type CancelFunc func() bool
