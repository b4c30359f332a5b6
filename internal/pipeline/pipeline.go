// Package pipeline scrambles every PNG under an input tree and writes
// the batch report.
package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/Starmania/scrambling/internal/report"
	"github.com/Starmania/scrambling/internal/scramble"
)

// Config holds all parameters for a pipeline run.
type Config struct {
	InputDir  string
	OutputDir string
	BlockSize int   // 0 means scramble.DefaultBlockSize; negative fails every image
	Seed      int64 // 0 means non-reproducible, from the global source
	Workers   int
	Verbose   bool
}

// Pipeline orchestrates batch scrambling.
type Pipeline struct {
	cfg Config
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.BlockSize == 0 {
		cfg.BlockSize = scramble.DefaultBlockSize
	}
	return &Pipeline{cfg: cfg}
}

// Run executes the full pipeline and returns the report.
func (p *Pipeline) Run() (*report.Report, error) {
	// Step 1: Scan for sources.
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no png images found in %s", p.cfg.InputDir)
	}

	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[scrambling] found %d images\n", len(sources))
	}

	// Step 2: Scramble in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if p.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[scrambling] processing: %s\n", s.Key)
			}

			results[idx] = processImage(s, p.cfg)

			if p.cfg.Verbose && results[idx].err == nil {
				fmt.Fprintf(os.Stderr, "[scrambling] done: %s (%d of %d blocks displaced)\n",
					s.Key, results[idx].entry.Blocks.Displaced, results[idx].entry.Blocks.Total)
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into the report.
	rep := report.New(p.cfg.BlockSize)

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		rep.Images[r.key] = r.entry
	}

	// Report errors but don't fail the entire run for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[scrambling] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to scramble", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[scrambling] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	rep.RunInfo = &report.RunInfo{
		Workers: p.cfg.Workers,
		Seed:    p.cfg.Seed,
	}
	rep.ComputeStats()
	return rep, nil
}
