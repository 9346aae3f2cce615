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

// Package gameheader parses the top-level format magic and product fields
// that sit right after the pack-file prelude (or right after the PE
// overlay, if there was no prelude), mirroring the teacher's chd package's
// "read a small fixed prefix, branch on a version field" header parser
// retargeted from CHD's 3-way version branch to this format's 3-way magic
// branch plus product-era derivation.
package gameheader

import (
	"fmt"

	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/ctferrors"
	"github.com/fusionforensics/ctfreader/internal/gameera"
)

// Dialect identifies which of the three recognized format magics introduced
// the header.
type Dialect int

const (
	DialectLegacy Dialect = iota // PAME
	DialectUnicode                // PAMU
	DialectCRUF                   // CRUF: unicode + cruf-specific extras
)

func (d Dialect) String() string {
	switch d {
	case DialectLegacy:
		return "legacy"
	case DialectUnicode:
		return "unicode"
	case DialectCRUF:
		return "cruf"
	default:
		return "unknown"
	}
}

// Magic words, little-endian on the wire (read as a plain u32).
const (
	MagicPAME uint32 = 0x454D4150
	MagicPAMU uint32 = 0x554D4150
	MagicCRUF uint32 = 0x46555243
)

// cncProductCode is CNCV1VER: a product code marking a cnc-era layout this
// parser acknowledges but does not deep-parse, per §4.F.
const cncProductCode uint16 = 0x0207

// Header is the outer format header: dialect, product identification, and
// the derived era that gates every subsequent chunk-layout decision.
type Header struct {
	Dialect           Dialect
	ProductCode       uint16
	RuntimeSubVersion uint16
	ProductVersion    uint32
	ProductBuild      uint32
	Era               gameera.Era
	IsCNC             bool
}

// Unicode reports whether names/titles in this header's dialect are
// UTF-16LE rather than ASCII/UTF-8.
func (d Dialect) Unicode() bool {
	return d != DialectLegacy
}

// ReadMagic reads the u32 magic at r's current position and reports which
// dialect it identifies, without consuming input on a miss so the caller
// (the pack/overlay layer) can try other candidates.
func ReadMagic(r *bin.Reader) (Dialect, bool, error) {
	magic, err := r.PeekU32()
	if err != nil {
		return 0, false, fmt.Errorf("peek format magic: %w", err)
	}
	switch magic {
	case MagicPAME:
		_, _ = r.ReadU32()
		return DialectLegacy, true, nil
	case MagicPAMU:
		_, _ = r.ReadU32()
		return DialectUnicode, true, nil
	case MagicCRUF:
		_, _ = r.ReadU32()
		return DialectCRUF, true, nil
	default:
		return 0, false, nil
	}
}

// ReadHeader reads a Header with r positioned immediately after its
// already-identified magic, per §6: u16 product_code, u16
// runtime_sub_version, u32 product_version, u32 product_build. oldGame and
// forceCompat come from the caller's detection heuristics/configuration and
// feed era derivation alongside product_build.
func ReadHeader(r *bin.Reader, dialect Dialect, oldGame, forceCompat bool) (*Header, error) {
	productCode, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("%w: product_code: %w", ctferrors.ErrInvalidGameSignature, err)
	}
	runtimeSubVersion, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("%w: runtime_sub_version: %w", ctferrors.ErrInvalidGameSignature, err)
	}
	productVersion, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("%w: product_version: %w", ctferrors.ErrInvalidGameSignature, err)
	}
	productBuild, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("%w: product_build: %w", ctferrors.ErrInvalidGameSignature, err)
	}

	era := gameera.Derive(productBuild, oldGame, forceCompat)

	return &Header{
		Dialect:           dialect,
		ProductCode:       productCode,
		RuntimeSubVersion: runtimeSubVersion,
		ProductVersion:    productVersion,
		ProductBuild:      productBuild,
		Era:               era,
		IsCNC:             productCode == cncProductCode,
	}, nil
}
