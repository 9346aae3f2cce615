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

// Package image decodes an image-bank item's pixel stream into a standard
// library image.NRGBA, covering the eight storage modes (RGBA32/BGRA32/
// RGB24/BGR24/RGB16/RGB15/RGB8/JPEG), the RLE/RLEW/RLET command encodings,
// row and alpha-plane padding, and colour-key transparency. Grounded on
// original_source/src/image.cpp's ColorFromMode/ReadRLE/ReadRGB/ReadAlpha
// family, retargeted from that file's ad hoc GRAPHICS0-7 numbering onto
// ctf/defines.hpp's canonical graphics_mode_t values (see DESIGN.md).
package image

import (
	"bytes"
	"fmt"
	goimage "image"
	"image/color"
	"image/jpeg"

	"github.com/fusionforensics/ctfreader/banks"
	bin "github.com/fusionforensics/ctfreader/internal/binary"
	"github.com/fusionforensics/ctfreader/internal/ctferrors"
	"github.com/fusionforensics/ctfreader/internal/inflate"
)

// Options controls behavior the pixel data alone doesn't determine.
type Options struct {
	// ColorKeyTransparent enables colour-key transparency when an image has
	// no explicit alpha plane ("dump colour transparent" in spec terms).
	ColorKeyTransparent bool
	// CCN narrows row/alpha padding to the ccn-mode rule (spec §4.H's table).
	CCN bool
	// Build is the product build number, feeding the build<280/>=280 padding split.
	Build uint32
	// Logger receives a warning when an RGB8 image is decoded without a
	// palette and falls back to a grey ramp. Nil is a no-op.
	Logger Logger
}

func (o Options) logger() Logger {
	if o.Logger == nil {
		return noopLogger{}
	}
	return o.Logger
}

// Logger is the minimal structural surface Decode needs to report a
// recoverable fallback. The root package's Logger satisfies this without
// image importing root.
type Logger interface {
	Warnf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warnf(string, ...any) {}

// Palette is a frame's 256-entry RGB8 lookup table.
type Palette [256]color.NRGBA

// ParsePalette decodes a frame-bank palette sub-chunk body: a leading u32
// unknown field, then 256 fixed-width entries of (r, g, b, discarded). The
// fourth byte of each entry is read and thrown away, alpha is always forced
// to 255 regardless of its value. Grounded on
// original_source/src/ctf/chunks/frame_bank.cpp's palette_t::read.
func ParsePalette(raw []byte) (*Palette, error) {
	r := bin.NewReader(bin.NewRootSpan(raw))
	if _, err := r.ReadU32(); err != nil {
		return nil, fmt.Errorf("palette header: %w", err)
	}

	var p Palette
	for i := range p {
		red, err := r.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("palette entry %d red: %w", i, err)
		}
		green, err := r.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("palette entry %d green: %w", i, err)
		}
		blue, err := r.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("palette entry %d blue: %w", i, err)
		}
		if _, err := r.ReadU8(); err != nil {
			return nil, fmt.Errorf("palette entry %d discard: %w", i, err)
		}
		p[i] = color.NRGBA{R: red, G: green, B: blue, A: 255}
	}
	return &p, nil
}

// bytesPerPixel reports the storage width of one pixel in mode, excluding JPEG.
func bytesPerPixel(mode banks.GraphicsMode) int {
	switch mode {
	case banks.GraphicsModeRGBA32, banks.GraphicsModeBGRA32:
		return 4
	case banks.GraphicsModeRGB24, banks.GraphicsModeBGR24:
		return 3
	case banks.GraphicsModeRGB16, banks.GraphicsModeRGB15:
		return 2
	case banks.GraphicsModeRGB8:
		return 1
	default:
		return 0
	}
}

// readPixel reads one pixel in mode's native storage format. palette
// resolves a GraphicsModeRGB8 index; when nil, the index falls back to a
// grey ramp (i=i=i).
func readPixel(r *bin.Reader, mode banks.GraphicsMode, palette *Palette) (color.NRGBA, error) {
	switch mode {
	case banks.GraphicsModeRGBA32:
		rgba, err := r.ReadU32()
		if err != nil {
			return color.NRGBA{}, err
		}
		return color.NRGBA{R: byte(rgba), G: byte(rgba >> 8), B: byte(rgba >> 16), A: byte(rgba >> 24)}, nil

	case banks.GraphicsModeBGRA32:
		bgra, err := r.ReadU32()
		if err != nil {
			return color.NRGBA{}, err
		}
		return color.NRGBA{B: byte(bgra), G: byte(bgra >> 8), R: byte(bgra >> 16), A: byte(bgra >> 24)}, nil

	case banks.GraphicsModeRGB24:
		r8, err := r.ReadU8()
		if err != nil {
			return color.NRGBA{}, err
		}
		g8, err := r.ReadU8()
		if err != nil {
			return color.NRGBA{}, err
		}
		b8, err := r.ReadU8()
		if err != nil {
			return color.NRGBA{}, err
		}
		return color.NRGBA{R: r8, G: g8, B: b8, A: 255}, nil

	case banks.GraphicsModeBGR24:
		b8, err := r.ReadU8()
		if err != nil {
			return color.NRGBA{}, err
		}
		g8, err := r.ReadU8()
		if err != nil {
			return color.NRGBA{}, err
		}
		r8, err := r.ReadU8()
		if err != nil {
			return color.NRGBA{}, err
		}
		return color.NRGBA{R: r8, G: g8, B: b8, A: 255}, nil

	case banks.GraphicsModeRGB16:
		v, err := r.ReadU16()
		if err != nil {
			return color.NRGBA{}, err
		}
		return color.NRGBA{
			R: byte((v & 0xF800) >> 8),
			G: byte((v & 0x07E0) >> 3),
			B: byte((v & 0x001F) << 3),
			A: 255,
		}, nil

	case banks.GraphicsModeRGB15:
		v, err := r.ReadU16()
		if err != nil {
			return color.NRGBA{}, err
		}
		return color.NRGBA{
			R: byte((v & 0x7C00) >> 7),
			G: byte((v & 0x03E0) >> 2),
			B: byte((v & 0x001F) << 3),
			A: 255,
		}, nil

	case banks.GraphicsModeRGB8:
		v, err := r.ReadU8()
		if err != nil {
			return color.NRGBA{}, err
		}
		if palette != nil {
			return palette[v], nil
		}
		return color.NRGBA{R: v, G: v, B: v, A: 255}, nil

	default:
		return color.NRGBA{}, fmt.Errorf("%w: read pixel in mode %d", ctferrors.ErrInvalidChunk, mode)
	}
}

// slack is (a - (x mod a)) mod a.
func slack(x, a int) int {
	if a == 0 {
		return 0
	}
	return (a - (x % a)) % a
}

// RowPadding implements spec §4.H's literal table: bytes skipped at the end
// of each colour-data row, selected by mode/era/build/optimise-size/ccn.
func RowPadding(mode banks.GraphicsMode, width int, rletOrOptimised, ccn, oldOrBuildUnder280 bool) int {
	switch mode {
	case banks.GraphicsModeRGB24, banks.GraphicsModeBGR24:
		switch {
		case rletOrOptimised:
			return (width * 3) % 2
		case ccn:
			return slack(width*3, 4)
		case oldOrBuildUnder280:
			return ((width * 3) % 2) * 3
		default:
			return (width % 2) * 3
		}
	case banks.GraphicsModeRGB8:
		switch {
		case rletOrOptimised:
			return width % 2
		case ccn:
			return slack(width, 4)
		case oldOrBuildUnder280:
			return width % 2
		default:
			return width % 2
		}
	default:
		return 0
	}
}

// AlphaPadding is slack(width, 4) outside ccn mode, 0 under it.
func AlphaPadding(width int, ccn bool) int {
	if ccn {
		return 0
	}
	return slack(width, 4)
}

// Decode turns an already-parsed Image's pixel data into an NRGBA bitmap,
// per spec §4.H's seven-step pipeline. chunkModeAlreadyLZ4 tells Decode the
// enclosing chunk was already mode 4 (LZ4), so an ImageFlagLZX bit on the
// item itself must not trigger a second, redundant inflate pass. palette
// resolves a GraphicsModeRGB8 image's indices; a nil palette falls back to
// a grey ramp, logged once through opts.Logger.
func Decode(img *banks.Image, opts Options, chunkModeAlreadyLZ4 bool, palette *Palette) (*goimage.NRGBA, error) {
	if img.Mode == banks.GraphicsModeJPEG {
		return decodeJPEG(img)
	}
	if img.Mode == banks.GraphicsModeRGB8 && palette == nil {
		opts.logger().Warnf("image %#x: RGB8 without a frame palette, falling back to grey ramp", img.Handle)
	}

	data := img.Data
	if img.Flags&banks.ImageFlagLZX != 0 && !chunkModeAlreadyLZ4 {
		inflated, err := inflateLZX(data)
		if err != nil {
			return nil, fmt.Errorf("image %#x LZX pixel stream: %w", img.Handle, err)
		}
		data = inflated
	}

	width, height := int(img.Width), int(img.Height)
	out := goimage.NewNRGBA(goimage.Rect(0, 0, width, height))

	r := bin.NewReader(bin.NewRootSpan(data))
	rlet := img.Flags&banks.ImageFlagRLET != 0
	oldOrBuildUnder280 := opts.Build < 280
	pad := RowPadding(img.Mode, width, rlet, opts.CCN, oldOrBuildUnder280)

	var err error
	switch {
	case img.Flags&(banks.ImageFlagRLE|banks.ImageFlagRLEW|banks.ImageFlagRLET) != 0:
		err = decodeRLE(r, out, img.Mode, width, height, pad, palette)
	default:
		err = decodeStraight(r, out, img.Mode, width, height, pad, palette)
	}
	if err != nil {
		return nil, fmt.Errorf("image %#x pixel stream: %w", img.Handle, err)
	}

	switch {
	case img.Flags&banks.ImageFlagAlpha != 0 && img.Mode != banks.GraphicsModeRGBA32:
		if err := decodeAlphaPlane(r, out, width, height, AlphaPadding(width, opts.CCN)); err != nil {
			return nil, fmt.Errorf("image %#x alpha plane: %w", img.Handle, err)
		}
	case opts.ColorKeyTransparent:
		applyColorKey(out, img.Transparent)
	default:
		forceOpaque(out)
	}

	return out, nil
}

// decodeRLE implements the command stream: 0 ends, (128,255] repeats
// (command-128) distinct pixels, [1,128] emits one pixel value that many
// times. Padding positions within a row are skipped, not emitted.
func decodeRLE(r *bin.Reader, out *goimage.NRGBA, mode banks.GraphicsMode, width, height int, pad int, palette *Palette) error {
	stride := width + pad
	pos, i := 0, 0
	total := width * height
	for i < total {
		cmd, err := r.ReadU8()
		if err != nil {
			return err
		}
		if cmd == 0 {
			break
		}
		if cmd > 128 {
			n := int(cmd) - 128
			for k := 0; k < n && i < total; k++ {
				if pos%stride < width {
					px, err := readPixel(r, mode, palette)
					if err != nil {
						return err
					}
					setPixel(out, i, width, px)
					i++
				} else if err := r.Skip(bytesPerPixel(mode)); err != nil {
					return err
				}
				pos++
			}
		} else {
			px, err := readPixel(r, mode, palette)
			if err != nil {
				return err
			}
			for k := 0; k < int(cmd) && i < total; k++ {
				if pos%stride < width {
					setPixel(out, i, width, px)
					i++
				}
				pos++
			}
		}
	}
	return nil
}

// decodeStraight reads width pixels per row in storage order, skipping pad
// bytes at each row's end.
func decodeStraight(r *bin.Reader, out *goimage.NRGBA, mode banks.GraphicsMode, width, height, pad int, palette *Palette) error {
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px, err := readPixel(r, mode, palette)
			if err != nil {
				return err
			}
			setPixel(out, i, width, px)
			i++
		}
		if pad > 0 {
			if err := r.Skip(pad * bytesPerPixel(mode)); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeAlphaPlane(r *bin.Reader, out *goimage.NRGBA, width, height, pad int) error {
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a, err := r.ReadU8()
			if err != nil {
				return err
			}
			px := pixelAt(out, i, width)
			px.A = a
			setPixel(out, i, width, px)
			i++
		}
		if pad > 0 {
			if err := r.Skip(pad); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyColorKey(out *goimage.NRGBA, key uint32) {
	kr, kg, kb := byte(key), byte(key>>8), byte(key>>16)
	for i := 0; i+3 < len(out.Pix); i += 4 {
		if out.Pix[i] == kr && out.Pix[i+1] == kg && out.Pix[i+2] == kb {
			out.Pix[i+3] = byte(key >> 24)
		} else {
			out.Pix[i+3] = 255
		}
	}
}

func forceOpaque(out *goimage.NRGBA) {
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255
	}
}

func setPixel(out *goimage.NRGBA, index, width int, c color.NRGBA) {
	x, y := index%width, index/width
	out.SetNRGBA(x, y, c)
}

func pixelAt(out *goimage.NRGBA, index, width int) color.NRGBA {
	x, y := index%width, index/width
	return out.NRGBAAt(x, y)
}

// inflateLZX consumes the secondary uncompressed-size + compressed-size
// prefix the LZX flag adds ahead of an already-deflate-framed pixel body,
// then inflates it (spec §4.H step 3).
func inflateLZX(data []byte) ([]byte, error) {
	r := bin.NewReader(bin.NewRootSpan(data))
	declared, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("uncompressed size: %w", err)
	}
	compressedSize, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("compressed size: %w", err)
	}
	compressed, err := r.ReadSpan(int(compressedSize))
	if err != nil {
		return nil, fmt.Errorf("compressed body: %w", err)
	}
	out, _, err := inflate.Inflate(compressed.Bytes(), inflate.DialectRaw, false, int(declared))
	return out, err
}

func decodeJPEG(img *banks.Image) (*goimage.NRGBA, error) {
	decoded, err := jpeg.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("image %#x jpeg decode: %w", img.Handle, err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != int(img.Width) || bounds.Dy() != int(img.Height) {
		return nil, fmt.Errorf("%w: jpeg dimensions %dx%d do not match declared %dx%d",
			ctferrors.ErrInvalidChunk, bounds.Dx(), bounds.Dy(), img.Width, img.Height)
	}
	out := goimage.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x, y, decoded.At(x, y))
		}
	}
	return out, nil
}
