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

// Top-level and structural chunk ids (spec §6's "abbreviated" table; the
// full format has 80+, most of which fall through to Result.Extra here).
const (
	idHeader    uint16 = 0x2223
	idLast      uint16 = 0x7F7F
	idFrame     uint16 = 0x3333
	idObjBank   uint16 = 0x2229
	idImageBank uint16 = 0x6666
	idSoundBank uint16 = 0x6668
	idMusicBank uint16 = 0x6669
	idFontBank  uint16 = 0x6667
	idFrameBank uint16 = 0x224D

	idTitle       uint16 = 0x2224
	idAuthor      uint16 = 0x2225
	idCopyright   uint16 = 0x223B
	idAbout       uint16 = 0x223A
	idProjectPath uint16 = 0x222E
	idOutputPath  uint16 = 0x222F

	idExtendedHeader uint16 = 0x2245
	idShaders        uint16 = 0x2243
	idProtection     uint16 = 0x2242
	idIcon           uint16 = 0x2235
	idBinaryFiles    uint16 = 0x2238
)

// Per-frame inner sub-ids, walked as a nested chunk stream within a frame
// bank item's body.
const (
	idFrameName             uint16 = 0x3335
	idFrameHeader           uint16 = 0x3334
	idFramePalette          uint16 = 0x3337
	idFrameObjectInstances  uint16 = 0x3338
	idFrameLayers           uint16 = 0x3341
	idFrameVirtualSize      uint16 = 0x3342
	idRandomSeed            uint16 = 0x3344
	idFrameEvents           uint16 = 0x333D
)

// Per-object inner sub-ids, walked as a nested chunk stream within an
// object bank item's body. Both inner streams end at the generic last id
// (0x7F7F), or when the nested reader runs out of bytes (mirrors the outer
// walker's own "until sentinel or out of data" tolerance).
const (
	idObjectHeader     uint16 = 0x4444
	idObjectName       uint16 = 0x4445
	idObjectProperties uint16 = 0x4446
	idObjectEffect     uint16 = 0x4448
)
