// Package blocks implements the block-grid geometry behind image
// scrambling: partitioning an image into fixed-size square blocks,
// permuting block positions, and reassembling an image from a
// permutation.
//
// All operations are pure functions over their arguments. The only
// entropy consumer is Shuffle/ShuffleFull, which draws from an
// explicitly passed *rand.Rand (or the process-wide source when nil).
package blocks

import (
	"fmt"
)

// Coordinate is the top-left pixel origin of one block.
type Coordinate struct {
	X int
	Y int
}

// Grid is an ordered sequence of block origins. BuildGrid returns it in
// canonical order: row-major, left-to-right, top-to-bottom. A shuffled
// Grid doubles as a permutation: entry i names the block whose pixels
// belong at canonical position i.
type Grid []Coordinate

// BuildGrid enumerates every block origin of a width×height image cut
// into blockSize×blockSize blocks, in canonical order. Origins are
// spaced exactly blockSize apart in each axis and cover [0,width) ×
// [0,height); when a dimension is not an exact multiple of blockSize
// the trailing origin is still included and its block is clipped to the
// remaining pixels (see ClipRect).
//
// The result has exactly ceil(width/blockSize)*ceil(height/blockSize)
// unique entries and is identical across calls for the same inputs.
func BuildGrid(width, height, blockSize int) (Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("build grid: image dimensions %dx%d must be positive", width, height)
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("build grid: block size %d must be positive", blockSize)
	}

	cols := (width + blockSize - 1) / blockSize
	rows := (height + blockSize - 1) / blockSize

	grid := make(Grid, 0, cols*rows)
	for y := 0; y < height; y += blockSize {
		for x := 0; x < width; x += blockSize {
			grid = append(grid, Coordinate{X: x, Y: y})
		}
	}
	return grid, nil
}

// GridDims returns the number of block columns and rows implied by an
// image of the given size, counting clipped trailing blocks.
func GridDims(width, height, blockSize int) (cols, rows int) {
	cols = (width + blockSize - 1) / blockSize
	rows = (height + blockSize - 1) / blockSize
	return cols, rows
}

// ClipRect returns the pixel extent of the block at origin c: blockSize
// in each axis, clipped to the image boundary.
func ClipRect(c Coordinate, width, height, blockSize int) (w, h int) {
	w = blockSize
	if c.X+w > width {
		w = width - c.X
	}
	h = blockSize
	if c.Y+h > height {
		h = height - c.Y
	}
	return w, h
}

// full reports whether the block at origin c measures exactly
// blockSize×blockSize inside a width×height image.
func full(c Coordinate, width, height, blockSize int) bool {
	return c.X+blockSize <= width && c.Y+blockSize <= height
}
