// Package encoder writes scrambled images to their on-disk container.
// PNG is the only one: the embedded key does not survive a lossy or
// palette re-encode.
package encoder

import (
	"bytes"
	"image"
	"image/png"
)

// EncodePNG serializes img to PNG bytes at best compression.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(512 * 1024) // pre-alloc 512KB

	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
