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

import "github.com/fusionforensics/ctfreader/internal/gameera"

// Era identifies the runtime generation that produced a game, which gates
// string width, chunk layout quirks, and the keystream preamble rule. It is
// a re-export of internal/gameera.Era: that package has no dependencies of
// its own, so chunk/container/gameheader/tree can depend on it directly
// without an import cycle back through this root package.
type Era = gameera.Era

const (
	EraOld  = gameera.Old
	EraV284 = gameera.V284
	EraV288 = gameera.V288
)

// DeriveEra implements the era-selection rule from the game header: an old
// build number, the explicit "old game" flag, or a forced-compatibility
// request all select EraOld; otherwise a build past 285 selects EraV288,
// and anything else in between selects EraV284.
func DeriveEra(build uint32, oldGame, forceCompat bool) Era {
	return gameera.Derive(build, oldGame, forceCompat)
}
