package pipeline

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/Starmania/scrambling/internal/blocks"
	"github.com/Starmania/scrambling/internal/encoder"
	"github.com/Starmania/scrambling/internal/hasher"
	"github.com/Starmania/scrambling/internal/report"
	"github.com/Starmania/scrambling/internal/scramble"
	"github.com/Starmania/scrambling/internal/stego"
	"github.com/cespare/xxhash/v2"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// processResult holds the result of scrambling a single source image.
type processResult struct {
	key   string
	entry report.Entry
	err   error
}

// processImage handles a single source: decode, gate, scramble, write.
func processImage(src Source, cfg Config) processResult {
	result := processResult{key: src.Key}

	f, err := os.Open(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("open %s: %w", src.RelPath, err)
		return result
	}
	defer f.Close()

	// The scanner trusts extensions; the decoder's verdict is what
	// counts. A jpeg renamed to .png gets rejected here by name.
	img, formatName, err := image.Decode(f)
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}
	format := stego.ParseFormat(formatName)

	// Rewind and fingerprint the source bytes for the report.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		result.err = fmt.Errorf("rewind %s: %w", src.RelPath, err)
		return result
	}
	srcHash, err := hasher.ContentHashReader(f, 16)
	if err != nil {
		result.err = fmt.Errorf("hash %s: %w", src.RelPath, err)
		return result
	}

	// Derive a per-image source from the base seed so output does not
	// depend on worker scheduling.
	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed ^ int64(xxhash.Sum64String(src.Key))))
	}

	res, err := scramble.Encode(img, format, scramble.Options{
		BlockSize: cfg.BlockSize,
		Rand:      rng,
	})
	if err != nil {
		result.err = fmt.Errorf("scramble %s: %w", src.RelPath, err)
		return result
	}

	data, err := encoder.EncodePNG(res.Image)
	if err != nil {
		result.err = fmt.Errorf("encode %s: %w", src.RelPath, err)
		return result
	}

	// Ensure output subdirectory exists.
	keyDir := filepath.Dir(src.Key)
	if keyDir != "." {
		os.MkdirAll(filepath.Join(cfg.OutputDir, keyDir), 0o755)
	}

	fileName := filepath.Base(src.Key) + scrambledSuffix
	relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))
	outPath := filepath.Join(cfg.OutputDir, relPath)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		result.err = fmt.Errorf("write %s: %w", relPath, err)
		return result
	}

	bounds := img.Bounds()
	cols, rows := blocks.GridDims(bounds.Dx(), bounds.Dy(), res.Record.BlockSize)
	result.entry = report.Entry{
		Source: report.SourceInfo{
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
			Format: formatName,
			Size:   src.Size,
			Hash:   srcHash,
		},
		Output: report.OutputInfo{
			Path: relPath,
			Size: int64(len(data)),
			Hash: hasher.ContentHash(data, 16),
		},
		Blocks: report.BlockInfo{
			Size:      res.Record.BlockSize,
			Cols:      cols,
			Rows:      rows,
			Total:     res.Blocks,
			Displaced: res.Displaced,
			Clipped:   res.Clipped,
		},
		PayloadBytes:  res.PayloadSize,
		CapacityBytes: stego.Capacity(res.Image),
	}
	return result
}
