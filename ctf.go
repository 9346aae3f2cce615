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

// Package ctfreader parses Clickteam-family game containers: the PE overlay
// and pack-file prelude, the game header, and the chunk tree of titles,
// resource banks, and binary attachments it contains.
package ctfreader

import (
	"fmt"
	"os"

	"github.com/fusionforensics/ctfreader/container"
	"github.com/fusionforensics/ctfreader/gameheader"
	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/ctferrors"
	"github.com/fusionforensics/ctfreader/internal/gameera"
	"github.com/fusionforensics/ctfreader/internal/keystream"
	"github.com/fusionforensics/ctfreader/tree"
)

// Game is the parsed result of one container: header metadata, all resource
// banks, and anything this port doesn't model in detail, retained raw.
// A thin alias of tree.Result, the same re-export shape used for Era and
// the sentinel errors, so tree never has to import this package.
type Game = tree.Result

// Header re-exports gameheader.Header so callers need only import this
// package for the common case.
type Header = gameheader.Header

// maxOutputSize bounds a single decoded chunk body, a guard against a
// corrupt declared size turning a small file into a multi-gigabyte
// allocation.
const maxOutputSize = 512 << 20

// parseContext implements chunk.KeyProvider, deriving the keystream table
// lazily from whichever title/copyright/project-path strings the walker has
// found so far. Those name chunks are always written before any bank chunk
// in every known build of the authoring tool, so by the time a mode-2/3
// bank chunk is decoded the strings this depends on are already populated
// on result.
type parseContext struct {
	result   *Game
	era      gameera.Era
	anaconda bool

	table    *keystream.Table
	tableErr error
	resolved bool
}

func (c *parseContext) Table() (*keystream.Table, error) {
	if c.resolved {
		return c.table, c.tableErr
	}
	c.resolved = true

	if c.result.Title == "" && c.result.Copyright == "" {
		c.tableErr = fmt.Errorf("derive keystream table: %w", ctferrors.ErrKeyUnavailable)
		return nil, c.tableErr
	}

	key := keystream.DeriveKey(c.result.Title, c.result.Copyright, c.result.ProjectPath, c.era != gameera.Old)
	table, ok := keystream.GenerateTable(key, c.era.MagicByte())
	if !ok {
		c.tableErr = fmt.Errorf("derive keystream table: %w", keystream.ErrDecryptFailed)
		return nil, c.tableErr
	}
	c.table = table
	return c.table, nil
}

func (c *parseContext) MaxOutputSize() int { return maxOutputSize }
func (c *parseContext) Anaconda() bool     { return c.anaconda }

// Parse opens path and extracts game data: archive unwrap (if enabled and
// path looks archived), PE overlay discovery, pack-file prelude, game
// header, then the chunk tree. Archive unwrap needs real file random
// access (the zip/7z/rar readers all open path themselves), so this takes
// a path rather than bytes already in memory; ParseBytes covers the
// latter case.
func Parse(path string, cfg Config) (*Game, error) {
	var data []byte
	if cfg.ArchiveExtraction && container.IsArchivePath(path) {
		payload, _, err := container.ExtractPayload(path)
		if err != nil {
			return nil, fmt.Errorf("extract archive payload: %w", err)
		}
		data = payload
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		data = raw
	}

	return ParseBytes(data, cfg)
}

// ParseBytes runs the same pipeline as Parse directly against data already
// in memory: PE overlay discovery, pack-file prelude, game header, then the
// chunk tree. It never attempts archive unwrap; callers with an archive
// path should use Parse instead.
func ParseBytes(data []byte, cfg Config) (*Game, error) {
	start, err := container.FindGameStart(data)
	if err != nil {
		return nil, fmt.Errorf("locate game data: %w", err)
	}
	body := data[start:]

	r := bin.NewReader(bin.NewRootSpan(body))
	packStart := r.Position()
	if magic, err := r.ReadU64(); err == nil && magic == container.PackMagic {
		if _, err := container.ReadPack(r); err != nil {
			return nil, fmt.Errorf("read pack prelude: %w", err)
		}
	} else if err := r.SeekTo(packStart); err != nil {
		return nil, fmt.Errorf("seek back past pack-magic probe: %w", err)
	}

	dialect, ok, err := gameheader.ReadMagic(r)
	if err != nil {
		return nil, fmt.Errorf("read game magic: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("find game header: %w", ctferrors.ErrInvalidGameSignature)
	}

	header, err := gameheader.ReadHeader(r, dialect, false, cfg.ForceCompat)
	if err != nil {
		return nil, fmt.Errorf("read game header: %w", err)
	}

	result := &Game{}
	ctx := &parseContext{result: result, era: header.Era, anaconda: cfg.Anaconda}

	var progress tree.ProgressSink
	if cfg.Progress != nil {
		progress = cfg.Progress
	}

	var cancel tree.CancelFunc
	if cfg.Cancel != nil {
		cancel = tree.CancelFunc(cfg.Cancel)
	}

	walkCfg := tree.Config{
		Era:              header.Era,
		Unicode:          dialect.Unicode(),
		CRUF:             dialect == gameheader.DialectCRUF,
		SkipBrokenItems:  cfg.SkipBrokenItems,
		MaxItemReadFails: cfg.maxItemReadFails(),
		Logger:           cfg.logger(),
		Progress:         progress,
		Cancel:           cancel,
	}

	walked, err := tree.Walk(r, ctx, walkCfg, result)
	if err != nil {
		return walked, fmt.Errorf("walk chunk tree: %w", err)
	}
	return walked, nil
}
