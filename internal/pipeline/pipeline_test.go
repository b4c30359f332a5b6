package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Starmania/scrambling/internal/hasher"
	"github.com/Starmania/scrambling/internal/payload"
	"github.com/Starmania/scrambling/internal/stego"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x), G: uint8(y), B: uint8(x*7 + y*13), A: 255,
			})
		}
	}
	return img
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestRun_ScramblesTree(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	if err := os.MkdirAll(filepath.Join(in, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeTestPNG(t, filepath.Join(in, "a.png"), 64, 64)
	writeTestPNG(t, filepath.Join(in, "sub", "b.png"), 96, 64)

	rep, err := New(Config{
		InputDir: in, OutputDir: out,
		BlockSize: 32, Seed: 5, Workers: 2,
	}).Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(rep.Images) != 2 {
		t.Fatalf("report entries: got %d, want 2", len(rep.Images))
	}
	a, ok := rep.Images["a"]
	if !ok {
		t.Fatal("entry a missing")
	}
	if a.Blocks.Total != 4 || a.Blocks.Cols != 2 || a.Blocks.Rows != 2 {
		t.Errorf("entry a grid: got %+v", a.Blocks)
	}
	if a.Source.Format != "png" {
		t.Errorf("entry a source format: got %q", a.Source.Format)
	}
	raw, err := os.ReadFile(filepath.Join(in, "a.png"))
	if err != nil {
		t.Fatal(err)
	}
	if want := hasher.ContentHash(raw, 16); a.Source.Hash != want {
		t.Errorf("entry a source hash: got %q, want %q", a.Source.Hash, want)
	}
	if _, ok := rep.Images["sub/b"]; !ok {
		t.Fatal("entry sub/b missing")
	}
	if rep.Stats.TotalImages != 2 || rep.Stats.TotalBlocks != 10 {
		t.Errorf("stats: got %+v", rep.Stats)
	}

	// The written file must decode and give back its own key.
	f, err := os.Open(filepath.Join(out, "a.scrambled.png"))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	data, err := stego.Extract(img)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	rec, err := payload.Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Width != 64 || rec.Height != 64 || rec.BlockSize != 32 {
		t.Errorf("embedded key: got %dx%d/%d, want 64x64/32", rec.Width, rec.Height, rec.BlockSize)
	}
}

func TestRun_SeededRunsAgree(t *testing.T) {
	in := t.TempDir()
	writeTestPNG(t, filepath.Join(in, "a.png"), 96, 96)

	cfg := Config{InputDir: in, BlockSize: 32, Seed: 42, Workers: 1}

	cfg.OutputDir = t.TempDir()
	rep1, err := New(cfg).Run()
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	cfg.OutputDir = t.TempDir()
	rep2, err := New(cfg).Run()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	h1, h2 := rep1.Images["a"].Output.Hash, rep2.Images["a"].Output.Hash
	if h1 == "" || h1 != h2 {
		t.Errorf("seeded output hashes: got %q and %q, want equal", h1, h2)
	}
}

func TestRun_RenamedJPEGIsRejected(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeTestPNG(t, filepath.Join(in, "good.png"), 64, 64)

	// JPEG bytes hiding under a .png name: the scanner picks it up,
	// the decoder unmasks it, the gate rejects it.
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(32, 32), nil); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(in, "fake.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	rep, err := New(Config{InputDir: in, OutputDir: out, Workers: 1}).Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rep.Images) != 1 {
		t.Fatalf("report entries: got %d, want 1", len(rep.Images))
	}
	if _, ok := rep.Images["good"]; !ok {
		t.Error("entry good missing")
	}
	if _, err := os.Stat(filepath.Join(out, "fake.scrambled.png")); !os.IsNotExist(err) {
		t.Error("rejected image produced an output file")
	}
}

func TestRun_NegativeBlockSize(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeTestPNG(t, filepath.Join(in, "a.png"), 64, 64)

	// A negative block size is not coerced to the default; it fails
	// every image, exactly as it fails a single-file encode.
	if _, err := New(Config{InputDir: in, OutputDir: out, BlockSize: -4, Workers: 1}).Run(); err == nil {
		t.Fatal("negative block size: expected the run to fail")
	}
}

func TestRun_AllImagesFailing(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	if err := os.WriteFile(filepath.Join(in, "junk.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(Config{InputDir: in, OutputDir: out, Workers: 1}).Run(); err == nil {
		t.Fatal("expected an error when every image fails")
	}
}

func TestRun_EmptyDir(t *testing.T) {
	if _, err := New(Config{InputDir: t.TempDir(), OutputDir: t.TempDir()}).Run(); err == nil {
		t.Fatal("expected an error for an empty input dir")
	}
}

func TestScanImages_Filters(t *testing.T) {
	in := t.TempDir()
	for _, dir := range []string{"sub", ".hidden"} {
		if err := os.MkdirAll(filepath.Join(in, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeTestPNG(t, filepath.Join(in, "a.png"), 16, 16)
	writeTestPNG(t, filepath.Join(in, "sub", "b.PNG"), 16, 16)
	writeTestPNG(t, filepath.Join(in, ".hidden", "c.png"), 16, 16)
	writeTestPNG(t, filepath.Join(in, "old.scrambled.png"), 16, 16)
	if err := os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, err := ScanImages(in)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	keys := make(map[string]bool, len(sources))
	for _, s := range sources {
		keys[s.Key] = true
	}
	if len(sources) != 2 || !keys["a"] || !keys["sub/b"] {
		t.Errorf("scanned keys: got %v, want a and sub/b", keys)
	}
}
