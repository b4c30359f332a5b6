package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestReportRoundtrip(t *testing.T) {
	r := New(32)
	r.RunInfo = &RunInfo{Workers: 4, Seed: 99}
	r.Images["photos/cat"] = Entry{
		Source:        SourceInfo{Width: 800, Height: 600, Format: "png", Size: 100000, Hash: "00ff00ff00ff00ff"},
		Output:        OutputInfo{Path: "photos/cat.scrambled.png", Size: 120000, Hash: "abcd1234abcd1234"},
		Blocks:        BlockInfo{Size: 32, Cols: 25, Rows: 19, Total: 475, Displaced: 440, Clipped: 19},
		PayloadBytes:  3500,
		CapacityBytes: 179996,
	}
	r.ComputeStats()

	dir := t.TempDir()
	path := filepath.Join(dir, Filename)
	if err := WriteJSON(r, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var r2 Report
	if err := json.Unmarshal(data, &r2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if r2.Version != SupportedReportVersion {
		t.Errorf("version: got %d, want %d", r2.Version, SupportedReportVersion)
	}
	if r2.BlockSize != 32 {
		t.Errorf("block_size: got %d", r2.BlockSize)
	}
	if r2.RunInfo == nil {
		t.Fatal("run_info missing")
	}
	if r2.RunInfo.Workers != 4 {
		t.Errorf("workers: got %d", r2.RunInfo.Workers)
	}
	if r2.RunInfo.Seed != 99 {
		t.Errorf("seed: got %d", r2.RunInfo.Seed)
	}

	e, ok := r2.Images["photos/cat"]
	if !ok {
		t.Fatal("entry photos/cat missing")
	}
	if e.Source.Hash != "00ff00ff00ff00ff" {
		t.Errorf("source hash: got %q", e.Source.Hash)
	}
	if e.Output.Hash != "abcd1234abcd1234" {
		t.Errorf("output hash: got %q", e.Output.Hash)
	}
	if e.Blocks.Total != 475 {
		t.Errorf("blocks total: got %d", e.Blocks.Total)
	}
	if e.PayloadBytes != 3500 {
		t.Errorf("payload_bytes: got %d", e.PayloadBytes)
	}

	if r2.Stats.TotalImages != 1 {
		t.Errorf("total_images: got %d", r2.Stats.TotalImages)
	}
	if r2.Stats.TotalBlocks != 475 {
		t.Errorf("total_blocks: got %d", r2.Stats.TotalBlocks)
	}
	if r2.Stats.TotalDisplaced != 440 {
		t.Errorf("total_displaced: got %d", r2.Stats.TotalDisplaced)
	}
}

func TestReportVersion(t *testing.T) {
	r := New(16)
	if r.Version != SupportedReportVersion {
		t.Errorf("new report version: got %d, want %d", r.Version, SupportedReportVersion)
	}
}

func TestReportIgnoresUnknownFields(t *testing.T) {
	// Simulate a future report with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2026-01-01T00:00:00Z",
		"block_size": 32,
		"future_field": "should be ignored",
		"run_info": { "workers": 8, "seed": 7, "new_flag": true },
		"images": {},
		"stats": { "total_images": 0, "total_input_bytes": 0, "total_output_bytes": 0, "total_blocks": 0, "total_displaced": 0, "new_stat": 42 }
	}`

	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if r.Version != 1 {
		t.Errorf("version: got %d", r.Version)
	}
	if r.RunInfo == nil || r.RunInfo.Workers != 8 {
		t.Error("run_info not parsed correctly")
	}
}
