package blocks

import (
	"image"

	"github.com/disintegration/imaging"
)

// Arrange builds a new image of the same dimensions as src in which the
// grid cell at canonical position i holds the pixels of the block at
// perm[i] in src. perm must have one entry per block of src's own grid
// (canonical order, as produced by BuildGrid on src's dimensions);
// otherwise Arrange fails with a ShapeError. It also fails with a
// ShapeError when an entry pairs blocks whose clipped extents differ —
// clipped edge blocks may only map to positions of identical shape,
// never padded or cropped (ShuffleFull guarantees this).
//
// src is never mutated; the result is always a freshly allocated
// *image.NRGBA with zero-based bounds.
func Arrange(src image.Image, blockSize int, perm Grid) (*image.NRGBA, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	grid, err := BuildGrid(width, height, blockSize)
	if err != nil {
		return nil, err
	}
	if len(perm) != len(grid) {
		return nil, shapef("permutation has %d entries, image %dx%d with block size %d has %d blocks",
			len(perm), width, height, blockSize, len(grid))
	}

	in := toNRGBA(src)
	out := image.NewNRGBA(image.Rect(0, 0, width, height))

	for i, from := range perm {
		to := grid[i]
		fw, fh := ClipRect(from, width, height, blockSize)
		tw, th := ClipRect(to, width, height, blockSize)
		if fw != tw || fh != th {
			return nil, shapef("block (%d,%d) is %dx%d but position (%d,%d) is %dx%d",
				from.X, from.Y, fw, fh, to.X, to.Y, tw, th)
		}
		copyBlock(out, to, in, from, fw, fh)
	}
	return out, nil
}

// copyBlock copies a w×h pixel block from src origin `from` to dst
// origin `to`. Row-at-a-time Pix copies; both images are zero-based
// NRGBA so offsets are plain stride math.
func copyBlock(dst *image.NRGBA, to Coordinate, src *image.NRGBA, from Coordinate, w, h int) {
	rowBytes := w * 4
	for row := 0; row < h; row++ {
		so := (from.Y+row)*src.Stride + from.X*4
		do := (to.Y+row)*dst.Stride + to.X*4
		copy(dst.Pix[do:do+rowBytes], src.Pix[so:so+rowBytes])
	}
}

// toNRGBA returns src as a zero-based *image.NRGBA. An already
// zero-based NRGBA source is used directly (Arrange only reads from
// it); anything else is cloned, which also normalizes premultiplied
// alpha, YCbCr, paletted and offset-bounds sources.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(src)
}
