// Package scramble turns an image into its block-shuffled form and
// hides the shuffle key inside the result, so the output is the only
// thing a decoder ever needs.
package scramble

import (
	"image"
	"math/rand"

	"github.com/Starmania/scrambling/internal/blocks"
	"github.com/Starmania/scrambling/internal/payload"
	"github.com/Starmania/scrambling/internal/stego"
)

// DefaultBlockSize is the block edge used when the caller does not
// pick one.
const DefaultBlockSize = 32

// Options tune a single encode.
type Options struct {
	// BlockSize is the square block edge in pixels; 0 means
	// DefaultBlockSize.
	BlockSize int
	// Rand drives the shuffle; nil means the process-wide source.
	// Hand in a seeded source for reproducible output. A non-nil
	// source must not be shared across goroutines.
	Rand *rand.Rand
}

// Result is a finished encode.
type Result struct {
	// Image is the scrambled image with the key embedded.
	Image *image.NRGBA
	// Record is the key that was embedded.
	Record payload.Record
	// PayloadSize is the embedded key's size in bytes.
	PayloadSize int

	Blocks    int // total grid cells
	Displaced int // blocks whose content moved
	Clipped   int // undersized edge blocks, always pinned in place
}

// Encode scrambles img and embeds the key. The declared container
// format is checked before any block work: only PNG or an undeclared
// in-memory image may pass, because the embedded bits would not
// survive a lossy container. Encode never modifies img and is safe to
// call concurrently on independent images.
func Encode(img image.Image, format stego.Format, opts Options) (*Result, error) {
	if err := stego.Validate(format); err != nil {
		return nil, err
	}
	size := opts.BlockSize
	if size == 0 {
		size = DefaultBlockSize
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	grid, err := blocks.BuildGrid(w, h, size)
	if err != nil {
		return nil, err
	}
	perm := blocks.ShuffleFull(opts.Rand, grid, w, h, size)

	arranged, err := blocks.Arrange(img, size, perm)
	if err != nil {
		return nil, err
	}

	rec := payload.Record{Width: w, Height: h, BlockSize: size, Perm: perm}
	data, err := payload.Marshal(rec)
	if err != nil {
		return nil, err
	}
	out, err := stego.Embed(arranged, stego.FormatNone, data)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Image:       out,
		Record:      rec,
		PayloadSize: len(data),
		Blocks:      len(grid),
	}
	for i := range grid {
		if perm[i] != grid[i] {
			res.Displaced++
		}
		if bw, bh := blocks.ClipRect(grid[i], w, h, size); bw != size || bh != size {
			res.Clipped++
		}
	}
	return res, nil
}
