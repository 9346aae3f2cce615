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
	"fmt"

	"github.com/fusionforensics/ctfreader/internal/ctferrors"
)

// Sentinel error kinds making up the failure taxonomy (spec §7/§4.L),
// re-exported from internal/ctferrors so chunk/container/gameheader/tree can
// depend on the same values without importing this root package (which
// imports all of them). Subsystems wrap these with
// fmt.Errorf("...: %w", ...) at each boundary, building an unwrappable
// trace instead of a bespoke stack-trace type.
var (
	ErrInvalidExeSignature  = ctferrors.ErrInvalidExeSignature
	ErrInvalidPESignature   = ctferrors.ErrInvalidPESignature
	ErrInvalidGameSignature = ctferrors.ErrInvalidGameSignature
	ErrInvalidPackCount     = ctferrors.ErrInvalidPackCount
	ErrInvalidState         = ctferrors.ErrInvalidState
	ErrInvalidMode          = ctferrors.ErrInvalidMode
	ErrInvalidChunk         = ctferrors.ErrInvalidChunk
	ErrNoModeDecoder        = ctferrors.ErrNoModeDecoder
	ErrCancelled            = ctferrors.ErrCancelled
	ErrKeyUnavailable       = ctferrors.ErrKeyUnavailable
)

// DecodeError wraps any error arising from decoding a chunk body, carrying
// the chunk id and the source offset the chunk started at so the CLI/shell
// can cite the exact file position without the core formatting for display.
type DecodeError struct {
	ChunkID uint16
	Offset  int
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode chunk 0x%04X at offset 0x%x: %v", e.ChunkID, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// BankError reports a bank-level item failure that was skipped under the
// SkipBrokenItems policy, accumulated for the caller rather than aborting
// the parse (spec §7 propagation policy).
type BankError struct {
	Bank  string
	Index int
	Err   error
}

func (e *BankError) Error() string {
	return fmt.Sprintf("%s bank item %d: %v", e.Bank, e.Index, e.Err)
}

func (e *BankError) Unwrap() error {
	return e.Err
}
