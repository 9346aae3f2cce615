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

// Package banks reads the image/sound/music/font/object/frame bank bodies:
// a u32 item count followed by that many item entries, optionally followed
// by a "handles" sentinel sub-chunk, per §4.G. Each bank tolerates failing
// items up to a budget under the caller's skip policy, matching the
// teacher's chd/metadata.go chained-entry walk (continue past a bad entry
// rather than aborting the whole parse).
package banks

import (
	"errors"
	"fmt"

	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/gameera"
	"github.com/fusionforensics/ctfreader/internal/inflate"
)

// errNoKeystreamHere backs the no-op KeyProvider used by object/frame
// sub-chunk decoding: those chunks are only ever read from an already
// plaintext bank body, so mode-2/3 (keystream) sub-chunks are not expected;
// if one is seen anyway, decoding fails loudly instead of silently
// fabricating a table.
var errNoKeystreamHere = errors.New("keystream decode requested inside an already-decoded bank body")

// Failure records one skipped item, mirroring the root package's BankError
// shape without this package depending on root (root depends on tree,
// which depends on banks).
type Failure struct {
	Bank  string
	Index int
	Err   error
}

// Budget bounds how many item failures ReadXxxBank tolerates before
// surfacing the failure even under SkipBrokenItems.
type Budget struct {
	SkipBrokenItems bool
	MaxFails        int
}

// exhausted reports whether the budget has been spent.
func (b Budget) exhausted(failuresSoFar int) bool {
	return !b.SkipBrokenItems || failuresSoFar >= b.MaxFails
}

// readCount reads the bank body's leading item count (always u32 in this
// port; the ccn u16-pair variant is acknowledged but out of scope for deep
// parsing, per §4.F's CNCV1VER note).
func readCount(r *bin.Reader) (int, error) {
	n, err := r.ReadU32()
	if err != nil {
		return 0, fmt.Errorf("bank item count: %w", err)
	}
	return int(n), nil
}

// handlesSentinelID is the chunk id that, if found immediately following a
// bank's items, introduces an optional trailing "handles" table. Banks that
// see anything else at this position leave it for the outer tree walker.
const handlesSentinelID uint16 = 0x2226

// peekHandlesSentinel reports whether r is positioned at the handles
// sentinel id, without consuming it.
func peekHandlesSentinel(r *bin.Reader) bool {
	id, err := r.PeekU16()
	return err == nil && id == handlesSentinelID
}

// unicode resolves whether string fields in this bank's items are
// UTF-16LE, from the era and the outer header's unicode dialect flag.
func unicode(era gameera.Era, unicodeFlag bool) bool {
	return era.Unicode(unicodeFlag)
}

// readItemData reads one bank item's trailing data block: an already
// decoded bank body carries items back-to-back as
//
//	[u32 declared_size] u32 data_size u8 data[data_size]
//
// with the leading declared_size present only when compressed is true, in
// which case data is itself a raw-DEFLATE stream independent of the
// enclosing bank chunk's own encoding mode (items can be individually
// recompressed by the authoring tool regardless of how the bank as a whole
// was stored). maxSize bounds the inflated output the same way a chunk
// body's declared size does.
func readItemData(r *bin.Reader, compressed bool, maxSize int) ([]byte, error) {
	var declared int
	if compressed {
		d, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("item declared size: %w", err)
		}
		declared = int(d)
	}
	dataSize, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("item data size: %w", err)
	}
	raw, err := r.ReadSpan(int(dataSize))
	if err != nil {
		return nil, fmt.Errorf("item data: %w", err)
	}
	if !compressed {
		return raw.Bytes(), nil
	}
	bound := maxSize
	if declared > 0 && (bound <= 0 || declared < bound) {
		bound = declared
	}
	out, _, err := inflate.Inflate(raw.Bytes(), inflate.DialectRaw, false, bound)
	if err != nil {
		return nil, fmt.Errorf("item data inflate: %w", err)
	}
	return out, nil
}

// readItemDataDeclared reads an item's compressed data block when the
// uncompressed size was already read as part of the item's fixed head
// (image items carry it as the data_size head field, rather than as a
// second wire-level declared_size ahead of the stored byte count).
func readItemDataDeclared(r *bin.Reader, declared int) ([]byte, error) {
	dataSize, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("item stored size: %w", err)
	}
	raw, err := r.ReadSpan(int(dataSize))
	if err != nil {
		return nil, fmt.Errorf("item data: %w", err)
	}
	out, _, err := inflate.Inflate(raw.Bytes(), inflate.DialectRaw, false, declared)
	if err != nil {
		return nil, fmt.Errorf("item data inflate: %w", err)
	}
	return out, nil
}
