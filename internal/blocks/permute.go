package blocks

import (
	"fmt"
	"math/rand"
)

// ShapeError reports a permutation that cannot be applied: its length
// disagrees with the grid implied by the image, it pairs blocks of
// different clipped dimensions, or it is not a bijection. It indicates
// an integration bug between the grid, shuffle, and arrange stages, not
// bad user input.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "shape mismatch: " + e.Reason
}

func shapef(format string, args ...any) error {
	return &ShapeError{Reason: fmt.Sprintf(format, args...)}
}

// Shuffle returns a reordering of grid drawn uniformly from all
// len(grid)! orderings (Fisher–Yates). The input is not mutated. When
// rng is nil the process-wide math/rand source is used; pass a seeded
// *rand.Rand for reproducible permutations.
//
// The identity ordering is a legal outcome.
func Shuffle(rng *rand.Rand, grid Grid) Grid {
	perm := make(Grid, len(grid))
	copy(perm, grid)

	swap := func(i, j int) { perm[i], perm[j] = perm[j], perm[i] }
	if rng != nil {
		rng.Shuffle(len(perm), swap)
	} else {
		rand.Shuffle(len(perm), swap)
	}
	return perm
}

// ShuffleFull returns a permutation of grid that reorders only the
// blocks measuring exactly blockSize×blockSize inside a width×height
// image; clipped blocks on the right and bottom edges keep their
// canonical positions. Every pixel move a later Arrange performs
// therefore copies regions of identical shape, which keeps scrambling
// losslessly invertible for images whose dimensions do not divide
// evenly. When they do divide evenly this is exactly Shuffle.
func ShuffleFull(rng *rand.Rand, grid Grid, width, height, blockSize int) Grid {
	perm := make(Grid, len(grid))
	copy(perm, grid)

	var movable []int
	for i, c := range grid {
		if full(c, width, height, blockSize) {
			movable = append(movable, i)
		}
	}

	swap := func(i, j int) {
		perm[movable[i]], perm[movable[j]] = perm[movable[j]], perm[movable[i]]
	}
	if rng != nil {
		rng.Shuffle(len(movable), swap)
	} else {
		rand.Shuffle(len(movable), swap)
	}
	return perm
}

// Invert returns the permutation that undoes perm relative to grid:
// arranging with perm and then with the inverse restores every block to
// its canonical position. It fails with a ShapeError unless perm is a
// bijection over exactly the coordinates of grid.
func Invert(grid, perm Grid) (Grid, error) {
	if len(perm) != len(grid) {
		return nil, shapef("permutation has %d entries, grid has %d", len(perm), len(grid))
	}

	index := make(map[Coordinate]int, len(grid))
	for i, c := range grid {
		index[c] = i
	}

	inv := make(Grid, len(grid))
	seen := make([]bool, len(grid))
	for i, c := range perm {
		j, ok := index[c]
		if !ok {
			return nil, shapef("permutation entry %d (%d,%d) is not a grid origin", i, c.X, c.Y)
		}
		if seen[j] {
			return nil, shapef("permutation repeats origin (%d,%d)", c.X, c.Y)
		}
		seen[j] = true
		inv[j] = grid[i]
	}
	return inv, nil
}
