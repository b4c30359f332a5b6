// Package payload encodes the scramble key that rides inside the
// output image: original dimensions, block size and the block
// permutation, flattened into a compact JSON integer array.
//
// The wire format is positional: [W,H,S,S,x0,y0,x1,y1,...]. The first
// pair is the original image size, the second repeats the block size
// twice (a square block), and each following pair is the source origin
// of the block occupying the corresponding canonical grid cell.
package payload

import (
	"encoding/json"
	"fmt"

	"github.com/Starmania/scrambling/internal/blocks"
)

// Record is the decoded scramble key.
type Record struct {
	Width     int
	Height    int
	BlockSize int
	Perm      blocks.Grid
}

// MalformedError reports payload bytes that do not parse into a Record.
type MalformedError struct {
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed payload: %s: %v", e.Reason, e.Err)
	}
	return "malformed payload: " + e.Reason
}

func (e *MalformedError) Unwrap() error { return e.Err }

func malformedf(err error, format string, args ...any) error {
	return &MalformedError{Reason: fmt.Sprintf(format, args...), Err: err}
}

// Marshal flattens rec into its wire form. The output carries no
// whitespace, so equal records always marshal to equal bytes.
func Marshal(rec Record) ([]byte, error) {
	if rec.Width <= 0 || rec.Height <= 0 || rec.BlockSize <= 0 {
		return nil, fmt.Errorf("marshal payload: non-positive geometry %dx%d/%d",
			rec.Width, rec.Height, rec.BlockSize)
	}
	flat := make([]int, 0, 4+2*len(rec.Perm))
	flat = append(flat, rec.Width, rec.Height, rec.BlockSize, rec.BlockSize)
	for _, c := range rec.Perm {
		flat = append(flat, c.X, c.Y)
	}
	data, err := json.Marshal(flat)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return data, nil
}

// Unmarshal parses wire-form bytes back into a Record. Anything that
// is not a JSON array of non-negative integers with the positional
// header intact comes back as a *MalformedError.
func Unmarshal(data []byte) (Record, error) {
	var flat []int
	if err := json.Unmarshal(data, &flat); err != nil {
		return Record{}, malformedf(err, "not a JSON integer array")
	}
	if len(flat) < 4 {
		return Record{}, malformedf(nil, "header needs 4 integers, got %d", len(flat))
	}
	if (len(flat)-4)%2 != 0 {
		return Record{}, malformedf(nil, "odd coordinate count %d", len(flat)-4)
	}
	if flat[2] != flat[3] {
		return Record{}, malformedf(nil, "block size pair disagrees: %d vs %d", flat[2], flat[3])
	}

	rec := Record{Width: flat[0], Height: flat[1], BlockSize: flat[2]}
	if rec.Width <= 0 || rec.Height <= 0 || rec.BlockSize <= 0 {
		return Record{}, malformedf(nil, "non-positive geometry %dx%d/%d",
			rec.Width, rec.Height, rec.BlockSize)
	}

	coords := flat[4:]
	rec.Perm = make(blocks.Grid, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		x, y := coords[i], coords[i+1]
		if x < 0 || y < 0 {
			return Record{}, malformedf(nil, "negative coordinate (%d,%d)", x, y)
		}
		rec.Perm = append(rec.Perm, blocks.Coordinate{X: x, Y: y})
	}
	return rec, nil
}
