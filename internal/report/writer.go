package report

import (
	"encoding/json"
	"os"
	"time"
)

// New creates an empty report with defaults.
func New(blockSize int) *Report {
	return &Report{
		Version:     SupportedReportVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		BlockSize:   blockSize,
		Images:      make(map[string]Entry),
	}
}

// ComputeStats recalculates aggregate statistics from the entries.
func (r *Report) ComputeStats() {
	var s Stats
	s.TotalImages = len(r.Images)
	for _, e := range r.Images {
		s.TotalInputBytes += e.Source.Size
		s.TotalOutputBytes += e.Output.Size
		s.TotalBlocks += e.Blocks.Total
		s.TotalDisplaced += e.Blocks.Displaced
	}
	r.Stats = s
}

// WriteJSON serializes the report to a JSON file with stable ordering.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
