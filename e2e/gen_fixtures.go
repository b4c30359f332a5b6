//go:build ignore

// gen_fixtures creates small test images for smoke-testing the CLI.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "tiles"), 0o755)

	// Photo (PNG, 400x300): clipped blocks on both edges at 32px.
	writeImage(filepath.Join(dir, "photo.png"), gradient(400, 300))

	// Tiles (PNG, 256x256 each): an even 8x8 grid at 32px.
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("tile-%d.png", i)
		writeImage(filepath.Join(dir, "tiles", name), solidWithBorder(256, 256, uint8(i*60)))
	}

	// Odd size (PNG, 100x70): undersized edge blocks stay pinned.
	writeImage(filepath.Join(dir, "odd.png"), gradient(100, 70))

	// Alpha image, opaque where the key lands (top rows).
	writeImage(filepath.Join(dir, "fade.png"), bottomFade(128, 128))

	// Banner (JPEG, 400x225): the scrambler must refuse this one.
	writeJPEG(filepath.Join(dir, "banner.jpg"), gradient(400, 225))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 7 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func bottomFade(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fadeStart := h - h/4
	for y := 0; y < h; y++ {
		a := uint8(255)
		if y >= fadeStart {
			a = uint8((h - y) * 255 / (h - fadeStart))
		}
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 60, B: 30, A: a})
		}
	}
	return img
}

func writeImage(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeJPEG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		panic(err)
	}
}
