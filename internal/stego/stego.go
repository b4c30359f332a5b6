// Package stego carries the scramble key through an image's pixels.
// The least-significant-bit channel itself is delegated to
// github.com/auyer/steganography; this package wraps it with the
// container format gate, capacity checks and a plausibility bound on
// extraction.
package stego

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/auyer/steganography"
	"github.com/disintegration/imaging"
)

// ErrNoPayload reports an image whose pixels carry no plausible
// embedded key.
var ErrNoPayload = errors.New("no embedded payload")

// Capacity returns how many payload bytes img can carry.
func Capacity(img image.Image) int {
	return int(steganography.MaxEncodeSize(img))
}

// Embed hides payload in a copy of img. The declared container format
// is validated first: a payload written through a lossy or palette
// re-encode would not survive, so only PNG (or an undeclared in-memory
// image) passes. img is never modified.
func Embed(img image.Image, format Format, payload []byte) (*image.NRGBA, error) {
	if err := Validate(format); err != nil {
		return nil, err
	}
	if max := Capacity(img); len(payload) > max {
		return nil, fmt.Errorf("payload needs %d bytes, image holds %d", len(payload), max)
	}

	var buf bytes.Buffer
	if err := steganography.Encode(&buf, img, payload); err != nil {
		return nil, fmt.Errorf("embed payload: %w", err)
	}
	out, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("reread embedded image: %w", err)
	}
	if nrgba, ok := out.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba, nil
	}
	return imaging.Clone(out), nil
}

// Extract recovers an embedded payload. ErrNoPayload means nothing was
// plausibly embedded: the image is too small to carry even the length
// header, or the header reads as zero or as more bytes than the image
// could ever hold.
func Extract(img image.Image) ([]byte, error) {
	max := Capacity(img)
	if max == 0 {
		// Too few pixels to hold the 4-byte length header; reading
		// the size would walk off the end of the decoded bits.
		return nil, ErrNoPayload
	}
	size := steganography.GetMessageSizeFromImage(img)
	if size == 0 || int64(size) > int64(max) {
		return nil, ErrNoPayload
	}
	return steganography.Decode(size, img), nil
}
