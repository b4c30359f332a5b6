package report

// Report is the top-level output of a batch scrambling run.
type Report struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	BlockSize   int              `json:"block_size"`
	RunInfo     *RunInfo         `json:"run_info,omitempty"`
	Images      map[string]Entry `json:"images"`
	Stats       Stats            `json:"stats"`
}

// RunInfo captures run-time parameters for diagnostics.
type RunInfo struct {
	Workers int   `json:"workers"`
	Seed    int64 `json:"seed,omitempty"` // 0 when the run drew from the global source
}

// Entry describes one scrambled image.
type Entry struct {
	Source        SourceInfo `json:"source"`
	Output        OutputInfo `json:"output"`
	Blocks        BlockInfo  `json:"blocks"`
	PayloadBytes  int        `json:"payload_bytes"`  // embedded key size
	CapacityBytes int        `json:"capacity_bytes"` // what the image could carry
}

// SourceInfo holds metadata about the input image.
type SourceInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
	Hash   string `json:"hash"` // fingerprint of the original bytes
}

// OutputInfo describes the scrambled file on disk.
type OutputInfo struct {
	Path string `json:"path"` // relative to the output dir
	Size int64  `json:"size"`
	Hash string `json:"hash"` // first 16 hex chars of xxhash64
}

// BlockInfo summarizes the grid geometry and how much of it moved.
type BlockInfo struct {
	Size      int `json:"size"`
	Cols      int `json:"cols"`
	Rows      int `json:"rows"`
	Total     int `json:"total"`
	Displaced int `json:"displaced"`
	Clipped   int `json:"clipped,omitempty"` // undersized edge blocks, pinned in place
}

// Stats aggregates run metrics.
type Stats struct {
	TotalImages      int   `json:"total_images"`
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalBlocks      int   `json:"total_blocks"`
	TotalDisplaced   int   `json:"total_displaced"`
}

// SupportedReportVersion is the current schema version.
const SupportedReportVersion = 1

// Filename is the report's name inside the output directory.
const Filename = "scrambling.report.json"
