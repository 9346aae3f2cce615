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

// Package tree walks the top-level chunk stream following a game header,
// dispatching each chunk by id into the banks package's readers or into a
// plain string/raw-bytes field, mirroring the teacher's CHD init() chain
// (header -> map -> metadata, tolerating a non-fatal sub-parse failure)
// retargeted onto this format's id-tagged chunk sequence.
package tree

import (
	"fmt"

	"github.com/fusionforensics/ctfreader/banks"
	"github.com/fusionforensics/ctfreader/chunk"
	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/ctferrors"
	"github.com/fusionforensics/ctfreader/internal/gameera"
	"github.com/fusionforensics/ctfreader/names"
)

// stringFromBody decodes a string-field chunk body per the era's name
// encoding, used by the title/author/copyright/about/project-path/
// output-path chunks.
func stringFromBody(body []byte, era gameera.Era, unicodeFlag bool) (string, error) {
	return names.ReadCString(bin.NewReader(bin.NewRootSpan(body)), era, unicodeFlag)
}

// Logger is the minimal structural surface Walk needs for diagnostics. The
// root package's Logger satisfies this without tree importing root.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ProgressSink receives a 0..1 completion estimate as the walk proceeds.
// The root package's Progress satisfies this structurally.
type ProgressSink interface {
	Store(float64)
}

// CancelFunc is polled between chunks; Walk stops and returns
// ctferrors.ErrCancelled the first time it reports true.
type CancelFunc func() bool

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// Config configures one Walk call.
type Config struct {
	Era             gameera.Era
	Unicode         bool // the header dialect's unicode flag (PAMU/CRUF vs PAME)
	CRUF            bool
	SkipBrokenItems bool
	MaxItemReadFails int
	Logger          Logger
	Progress        ProgressSink
	Cancel          CancelFunc
}

func (c *Config) logger() Logger {
	if c.Logger == nil {
		return noopLogger{}
	}
	return c.Logger
}

func (c *Config) budget() banks.Budget {
	fails := c.MaxItemReadFails
	if fails <= 0 {
		fails = 3
	}
	return banks.Budget{SkipBrokenItems: c.SkipBrokenItems, MaxFails: fails}
}

// Walk reads chunks from r until idLast or the reader is exhausted,
// dispatching each by id. r must already be positioned just past the game
// header (gameheader.ReadHeader's caller is responsible for that).
//
// res, when non-nil, is populated in place and returned — the caller's own
// KeyProvider can hold a reference to the same Result to see title/copyright
// fields as they're filled in (needed to derive a keystream table for a
// later mode-2/3 chunk from strings this same walk discovers). res is
// allocated fresh when nil.
func Walk(r *bin.Reader, kp chunk.KeyProvider, cfg Config, res *Result) (*Result, error) {
	if res == nil {
		res = &Result{}
	}
	res.Era = cfg.Era
	res.Unicode = cfg.Unicode
	if res.Extra == nil {
		res.Extra = map[uint16][]byte{}
	}
	if res.ImagesByHandle == nil {
		res.ImagesByHandle = map[uint32]int{}
	}
	if res.ObjectsByHandle == nil {
		res.ObjectsByHandle = map[uint16]int{}
	}
	log := cfg.logger()

	for {
		if r.Remaining() == 0 {
			return res, nil
		}
		if cfg.Cancel != nil && cfg.Cancel() {
			return nil, ctferrors.ErrCancelled
		}

		before := r.Position()
		id, err := r.PeekU16()
		if err != nil {
			return res, nil
		}
		if id == idLast {
			_, _ = chunk.ReadChunk(r, cfg.Era)
			return res, nil
		}

		if err := dispatch(r, id, kp, cfg, res); err != nil {
			return res, fmt.Errorf("chunk 0x%04X: %w", id, err)
		}

		if r.Position() == before {
			return res, fmt.Errorf("at chunk 0x%04X: %w", id, ctferrors.ErrInvalidState)
		}

		if cfg.Progress != nil && r.Span().Len() > 0 {
			cfg.Progress.Store(float64(r.Position()) / float64(r.Span().Len()))
		}
		log.Debugf("chunk 0x%04X consumed, position now %d", id, r.Position())
	}
}

func dispatch(r *bin.Reader, id uint16, kp chunk.KeyProvider, cfg Config, res *Result) error {
	c, err := chunk.ReadChunk(r, cfg.Era)
	if err != nil {
		return err
	}

	switch id {
	case idTitle, idAuthor, idCopyright, idAbout, idProjectPath, idOutputPath:
		return dispatchStringField(c, kp, cfg, res)

	case idImageBank:
		return withDecodedBody(c, kp, cfg, func(br *bin.Reader) error {
			images, failures, err := banks.ReadImageBank(br, cfg.Era, cfg.budget())
			for _, img := range images {
				res.ImagesByHandle[img.Handle] = len(res.Images)
				res.Images = append(res.Images, img)
			}
			res.Failures = append(res.Failures, failures...)
			return err
		})

	case idSoundBank:
		return withDecodedBody(c, kp, cfg, func(br *bin.Reader) error {
			sounds, failures, err := banks.ReadSoundBank(br, cfg.Era, cfg.budget())
			res.Sounds = append(res.Sounds, sounds...)
			res.Failures = append(res.Failures, failures...)
			return err
		})

	case idMusicBank:
		return withDecodedBody(c, kp, cfg, func(br *bin.Reader) error {
			tracks, failures, err := banks.ReadMusicBank(br, cfg.Era, cfg.budget())
			res.Music = append(res.Music, tracks...)
			res.Failures = append(res.Failures, failures...)
			return err
		})

	case idFontBank:
		return withDecodedBody(c, kp, cfg, func(br *bin.Reader) error {
			fonts, failures, err := banks.ReadFontBank(br, cfg.Era, cfg.CRUF, cfg.budget())
			res.Fonts = append(res.Fonts, fonts...)
			res.Failures = append(res.Failures, failures...)
			return err
		})

	case idObjBank:
		return withDecodedBody(c, kp, cfg, func(br *bin.Reader) error {
			objects, failures, err := banks.ReadObjectBank(br, cfg.Era, cfg.Unicode, cfg.budget())
			for _, obj := range objects {
				res.ObjectsByHandle[obj.Handle] = len(res.Objects)
				res.Objects = append(res.Objects, obj)
			}
			res.Failures = append(res.Failures, failures...)
			return err
		})

	case idFrameBank:
		return withDecodedBody(c, kp, cfg, func(br *bin.Reader) error {
			frames, failures, err := banks.ReadFrameBank(br, cfg.Era, cfg.Unicode, cfg.budget())
			res.Frames = append(res.Frames, frames...)
			res.Failures = append(res.Failures, failures...)
			return err
		})

	case idFrame:
		// Bare frame chunk outside an explicit frame-bank wrapper: treat it
		// as one frame item directly (auto-synthesis).
		return withDecodedBody(c, kp, cfg, func(br *bin.Reader) error {
			f, err := banks.ReadFrameItem(br, cfg.Era, cfg.Unicode)
			if err != nil {
				res.Failures = append(res.Failures, banks.Failure{Bank: "frame", Index: len(res.Frames), Err: err})
				if cfg.budget().SkipBrokenItems {
					return nil
				}
				return err
			}
			res.Frames = append(res.Frames, f)
			return nil
		})

	case idIcon:
		return withDecodedBody(c, kp, cfg, func(br *bin.Reader) error {
			res.Icon = br.CopyRemaining()
			return nil
		})

	case idProtection:
		res.HasProtection = true
		return nil

	case idBinaryFiles:
		return withDecodedBody(c, kp, cfg, func(br *bin.Reader) error {
			res.BinaryFiles = append(res.BinaryFiles, br.CopyRemaining())
			return nil
		})

	case idHeader, idExtendedHeader, idShaders:
		// Recognized but not modeled in detail; keep the decoded bytes.
		return withDecodedBody(c, kp, cfg, func(br *bin.Reader) error {
			res.Extra[id] = br.CopyRemaining()
			return nil
		})

	default:
		body, err := c.Body.DecodeBody(kp, cfg.Era, c.ID)
		if err != nil {
			cfg.logger().Warnf("chunk 0x%04X: decode failed: %v", id, err)
			return nil
		}
		res.Extra[id] = body
		return nil
	}
}

func dispatchStringField(c *chunk.Chunk, kp chunk.KeyProvider, cfg Config, res *Result) error {
	body, err := c.Body.DecodeBody(kp, cfg.Era, c.ID)
	if err != nil {
		return fmt.Errorf("string field decode: %w", err)
	}
	s, err := stringFromBody(body, cfg.Era, cfg.Unicode)
	if err != nil {
		return err
	}
	switch c.ID {
	case idTitle:
		res.Title = s
	case idAuthor:
		res.Author = s
	case idCopyright:
		res.Copyright = s
	case idAbout:
		res.About = s
	case idProjectPath:
		res.ProjectPath = s
	case idOutputPath:
		res.OutputPath = s
	}
	return nil
}

// withDecodedBody decodes c's body and hands a fresh cursor over it to fn.
func withDecodedBody(c *chunk.Chunk, kp chunk.KeyProvider, cfg Config, fn func(*bin.Reader) error) error {
	body, err := c.Body.DecodeBody(kp, cfg.Era, c.ID)
	if err != nil {
		return fmt.Errorf("body decode: %w", err)
	}
	return fn(bin.NewReader(bin.NewRootSpan(body)))
}
