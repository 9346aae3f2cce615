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
	"github.com/fusionforensics/ctfreader/banks"
	"github.com/fusionforensics/ctfreader/internal/gameera"
)

// Result is everything Walk extracted from one game's chunk tree. The root
// package exposes this as Game via a thin type alias, the same re-export
// shape already used for Era and the sentinel errors.
type Result struct {
	Era     gameera.Era
	Unicode bool

	Title       string
	Author      string
	Copyright   string
	About       string
	ProjectPath string
	OutputPath  string

	HasProtection bool
	Icon          []byte
	BinaryFiles   [][]byte

	Images []*banks.Image
	Sounds []*banks.Sound
	Music  []*banks.Music
	Fonts  []*banks.Font
	Objects []*banks.Object
	Frames  []*banks.Frame

	// ImagesByHandle and ObjectsByHandle index Images/Objects by their
	// handle field, resolving to that slice's position. A frame's object
	// instances carry only an object handle, never a slice index, so a
	// caller resolves them through ObjectsByHandle rather than a linear
	// search; ImagesByHandle does the same for image handles.
	ImagesByHandle  map[uint32]int
	ObjectsByHandle map[uint16]int

	Failures []banks.Failure

	// Extra holds the raw decoded bodies of any top-level chunk id this
	// walker doesn't specifically model, keyed by id — kept for forensic
	// completeness rather than discarded.
	Extra map[uint16][]byte
}
