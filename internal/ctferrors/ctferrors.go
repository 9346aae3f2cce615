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

// Package ctferrors holds the sentinel error taxonomy shared by chunk,
// container, gameheader, and tree. It is a leaf package with no
// dependencies of its own so each of those packages, and the root package
// that re-exports the same sentinels for external callers, can all depend
// on it directly without forming an import cycle.
package ctferrors

import "errors"

var (
	ErrInvalidExeSignature  = errors.New("not a valid MS-DOS/PE executable")
	ErrInvalidPESignature   = errors.New("invalid PE signature")
	ErrInvalidGameSignature = errors.New("no recognized game header signature found")
	ErrInvalidPackCount     = errors.New("invalid pack-file entry count")
	ErrInvalidState         = errors.New("parser made no progress")
	ErrInvalidMode          = errors.New("invalid chunk encoding mode")
	ErrInvalidChunk         = errors.New("invalid chunk contents")
	ErrNoModeDecoder        = errors.New("no decoder registered for chunk mode")
	ErrCancelled            = errors.New("parse cancelled")
	ErrKeyUnavailable       = errors.New("title/copyright/project-path strings unavailable for key derivation")
	ErrInvalidBankItem      = errors.New("invalid bank item entry")
	ErrBankFailBudget       = errors.New("too many bank item failures")
)
