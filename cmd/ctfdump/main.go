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

// Command ctfdump parses a Clickteam-family game container and prints or
// dumps its contents.
package main

import (
	goimage "image"
	"image/png"

	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	ctfreader "github.com/fusionforensics/ctfreader"
	"github.com/fusionforensics/ctfreader/banks"
	"github.com/fusionforensics/ctfreader/image"
)

var (
	inputFile  = flag.String("i", "", "input file path (required)")
	jsonOutput = flag.Bool("json", false, "output as JSON")
	dumpDir    = flag.String("dump", "", "directory to write decoded bank entries to")
	verbose    = flag.Bool("v", false, "verbose (debug-level) logging")
	version    = flag.Bool("version", false, "print version and exit")
	skipBroken = flag.Bool("skip-broken", true, "skip bank items that fail to parse instead of aborting")
	colorKey   = flag.Bool("color-transparent", false, "treat an image's colour-key as transparent when it has no alpha plane")
	parallel   = flag.Bool("parallel-images", false, "decode dumped images across a worker pool instead of sequentially")
)

const appVersion = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -i <file> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Parses a Clickteam-family game container and prints or dumps its contents.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i game.exe\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i game.exe -json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i game.exe -dump ./out\n", os.Args[0])
	}
	flag.Parse()

	if *version {
		fmt.Printf("ctfdump version %s\n", appVersion)
		os.Exit(0)
	}

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: input file required (-i)\n")
		flag.Usage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	cfg := ctfreader.DefaultConfig()
	cfg.LogLevel = level
	cfg.Logger = ctfreader.NewLogger(level)
	cfg.SkipBrokenItems = *skipBroken
	cfg.DumpColorTransparent = *colorKey
	cfg.ParallelImageDecode = *parallel

	game, err := ctfreader.Parse(*inputFile, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", *inputFile, err)
		os.Exit(1)
	}

	if *dumpDir != "" {
		if err := dumpGame(game, *dumpDir, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error dumping to %s: %v\n", *dumpDir, err)
			os.Exit(1)
		}
	}

	if *jsonOutput {
		outputJSON(game)
	} else {
		outputText(game)
	}
}

func outputJSON(game *ctfreader.Game) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summarize(game)); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// summary is the JSON-friendly shape of a Game: metadata and bank counts,
// not every raw byte slice the full struct carries.
type summary struct {
	Era           string `json:"era"`
	Unicode       bool   `json:"unicode"`
	Title         string `json:"title,omitempty"`
	Author        string `json:"author,omitempty"`
	Copyright     string `json:"copyright,omitempty"`
	About         string `json:"about,omitempty"`
	ProjectPath   string `json:"project_path,omitempty"`
	OutputPath    string `json:"output_path,omitempty"`
	HasProtection bool   `json:"has_protection"`
	ImageCount    int    `json:"image_count"`
	SoundCount    int    `json:"sound_count"`
	MusicCount    int    `json:"music_count"`
	FontCount     int    `json:"font_count"`
	ObjectCount   int    `json:"object_count"`
	FrameCount    int    `json:"frame_count"`
	BinaryCount   int    `json:"binary_file_count"`
	FailureCount  int    `json:"failure_count"`
}

func summarize(game *ctfreader.Game) summary {
	return summary{
		Era:           game.Era.String(),
		Unicode:       game.Unicode,
		Title:         game.Title,
		Author:        game.Author,
		Copyright:     game.Copyright,
		About:         game.About,
		ProjectPath:   game.ProjectPath,
		OutputPath:    game.OutputPath,
		HasProtection: game.HasProtection,
		ImageCount:    len(game.Images),
		SoundCount:    len(game.Sounds),
		MusicCount:    len(game.Music),
		FontCount:     len(game.Fonts),
		ObjectCount:   len(game.Objects),
		FrameCount:    len(game.Frames),
		BinaryCount:   len(game.BinaryFiles),
		FailureCount:  len(game.Failures),
	}
}

func outputText(game *ctfreader.Game) {
	fmt.Printf("Era: %s\n", game.Era)
	if game.Title != "" {
		fmt.Printf("Title: %s\n", game.Title)
	}
	if game.Author != "" {
		fmt.Printf("Author: %s\n", game.Author)
	}
	if game.Copyright != "" {
		fmt.Printf("Copyright: %s\n", game.Copyright)
	}
	if game.HasProtection {
		fmt.Println("Protection: yes")
	}
	fmt.Printf("Images: %d, Sounds: %d, Music: %d, Fonts: %d, Objects: %d, Frames: %d\n",
		len(game.Images), len(game.Sounds), len(game.Music), len(game.Fonts), len(game.Objects), len(game.Frames))
	if len(game.BinaryFiles) > 0 {
		fmt.Printf("Binary files: %d\n", len(game.BinaryFiles))
	}
	if len(game.Failures) > 0 {
		fmt.Printf("\n%d bank item failures:\n", len(game.Failures))
		for _, f := range game.Failures {
			fmt.Printf("  %s[%d]: %v\n", f.Bank, f.Index, f.Err)
		}
	}
}

// dumpGame writes each decoded resource bank's entries under dir, images as
// PNG (decoded through the image package) and everything else as raw bytes.
func dumpGame(game *ctfreader.Game, dir string, cfg ctfreader.Config) error {
	dirs := []string{"images", "sounds", "music", "binary_files"}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return err
		}
	}

	opts := image.Options{ColorKeyTransparent: cfg.DumpColorTransparent, Logger: cfg.Logger}
	if err := dumpImages(game.Images, dir, opts, cfg); err != nil {
		return err
	}

	for _, s := range game.Sounds {
		name := filepath.Join(dir, "sounds", fmt.Sprintf("%d.bin", s.Handle))
		if err := os.WriteFile(name, s.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	for _, m := range game.Music {
		name := filepath.Join(dir, "music", fmt.Sprintf("%d.bin", m.Handle))
		if err := os.WriteFile(name, m.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	for i, b := range game.BinaryFiles {
		name := filepath.Join(dir, "binary_files", fmt.Sprintf("%d.bin", i))
		if err := os.WriteFile(name, b, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	if game.Icon != nil {
		if err := os.WriteFile(filepath.Join(dir, "icon.bin"), game.Icon, 0o644); err != nil {
			return fmt.Errorf("write icon: %w", err)
		}
	}

	return nil
}

// dumpImages decodes and writes each image-bank entry as a PNG. With
// Config.ParallelImageDecode set, entries are fanned out across a worker
// pool sized to GOMAXPROCS, since each entry's decode is independent once
// the bank has already been parsed.
func dumpImages(images []*banks.Image, dir string, opts image.Options, cfg ctfreader.Config) error {
	if !cfg.ParallelImageDecode || len(images) < 2 {
		for _, img := range images {
			if err := dumpOneImage(img, dir, opts, cfg); err != nil {
				return err
			}
		}
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(images) {
		workers = len(images)
	}
	jobs := make(chan *banks.Image)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for img := range jobs {
				if err := dumpOneImage(img, dir, opts, cfg); err != nil {
					errs <- err
				}
			}
		}()
	}

	for _, img := range images {
		jobs <- img
	}
	close(jobs)
	wg.Wait()
	close(errs)

	for err := range errs {
		return err
	}
	return nil
}

func dumpOneImage(img *banks.Image, dir string, opts image.Options, cfg ctfreader.Config) error {
	name := filepath.Join(dir, "images", fmt.Sprintf("%d.png", img.Handle))
	// The flat per-image dump loop has no frame context to resolve which
	// frame (if any) owns this image's palette, so paletted RGB8 entries
	// fall back to the grey ramp here; image.ParsePalette is exercised
	// directly by callers that do have a frame in hand.
	decoded, err := image.Decode(img, opts, false, nil)
	if err != nil {
		cfg.Logger.Warnf("image %d: decode failed, skipping: %v", img.Handle, err)
		return nil
	}
	if err := writePNG(name, decoded); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func writePNG(path string, img *goimage.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
