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

package inflate

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"errors"
	"testing"
)

func rawDeflate(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter: %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return buf.Bytes()
}

func zlibDeflate(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return buf.Bytes()
}

func TestInflateRaw(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog"), 16)
	compressed := rawDeflate(t, payload)

	got, consumed, err := Inflate(compressed, DialectRaw, false, 0)
	if err != nil {
		t.Fatalf("Inflate: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Inflate() output mismatch, got %d bytes want %d", len(got), len(payload))
	}
	if consumed == 0 || consumed > len(compressed) {
		t.Fatalf("consumed = %d, want in (0, %d]", consumed, len(compressed))
	}
}

func TestInflateZlib(t *testing.T) {
	t.Parallel()

	payload := []byte("a small zlib wrapped payload")
	compressed := zlibDeflate(t, payload)

	got, _, err := Inflate(compressed, DialectZlib, false, 0)
	if err != nil {
		t.Fatalf("Inflate: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Inflate() = %q, want %q", got, payload)
	}
}

func TestInflateMaxSizeTruncates(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("A"), 4096)
	compressed := rawDeflate(t, payload)

	got, _, err := Inflate(compressed, DialectRaw, false, 100)
	if err != nil {
		t.Fatalf("Inflate: %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("len(got) = %d, want 100", len(got))
	}
}

func TestInflateMalformed(t *testing.T) {
	t.Parallel()

	_, _, err := Inflate([]byte{0xFF, 0xFF, 0xFF, 0xFF}, DialectRaw, false, 0)
	if !errors.Is(err, ErrInflateFailed) {
		t.Fatalf("Inflate() error = %v, want ErrInflateFailed", err)
	}
}

func TestInflateUnknownDialect(t *testing.T) {
	t.Parallel()

	_, _, err := Inflate([]byte{0x00}, Dialect(99), false, 0)
	if !errors.Is(err, ErrInflateFailed) {
		t.Fatalf("Inflate() error = %v, want ErrInflateFailed", err)
	}
}

func TestGuessInflate(t *testing.T) {
	t.Parallel()

	payload := []byte("guessed payload body")
	compressed := zlibDeflate(t, payload)

	if got := GuessInflate(compressed, 0); !bytes.Equal(got, payload) {
		t.Fatalf("GuessInflate() = %q, want %q", got, payload)
	}

	raw := []byte{0x01, 0x02, 0x03}
	if got := GuessInflate(raw, 0); !bytes.Equal(got, raw) {
		t.Fatalf("GuessInflate() on non-zlib-looking data = %v, want unchanged %v", got, raw)
	}
}
