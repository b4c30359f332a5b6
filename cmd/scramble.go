package cmd

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Starmania/scrambling/internal/blocks"
	"github.com/Starmania/scrambling/internal/encoder"
	"github.com/Starmania/scrambling/internal/hasher"
	"github.com/Starmania/scrambling/internal/pipeline"
	"github.com/Starmania/scrambling/internal/report"
	"github.com/Starmania/scrambling/internal/scramble"
	"github.com/Starmania/scrambling/internal/stego"
	"github.com/spf13/cobra"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	scrambleOut       string
	scrambleBlockSize int
	scrambleSeed      int64
	scrambleWorkers   int
)

var scrambleCmd = &cobra.Command{
	Use:   "scramble <input>",
	Short: "Scramble an image or a directory of images",
	Long: `Scrambles a PNG image (or every PNG under a directory) into its
block-shuffled form and hides the shuffle key in the output's own pixels.

Directory mode mirrors the input tree as <key>.scrambled.png files and
writes a scrambling.report.json with per-image block stats.`,
	Args: cobra.ExactArgs(1),
	RunE: runScramble,
}

func init() {
	scrambleCmd.Flags().StringVarP(&scrambleOut, "out", "o", "", "output file, or directory in directory mode (default ./scrambled_out)")
	scrambleCmd.Flags().IntVarP(&scrambleBlockSize, "block-size", "b", scramble.DefaultBlockSize, "square block edge in pixels")
	scrambleCmd.Flags().Int64Var(&scrambleSeed, "seed", 0, "shuffle seed for reproducible output (0 = random)")
	scrambleCmd.Flags().IntVarP(&scrambleWorkers, "workers", "w", 0, "parallel workers in directory mode (0 = NumCPU)")
	rootCmd.AddCommand(scrambleCmd)
}

func runScramble(_ *cobra.Command, args []string) error {
	if scrambleBlockSize < 0 {
		return fmt.Errorf("--block-size must not be negative, got %d", scrambleBlockSize)
	}
	input := args[0]
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("stat %s: %w", input, err)
	}
	if info.IsDir() {
		return scrambleDir(input)
	}
	return scrambleFile(input, info.Size())
}

func scrambleDir(inputDir string) error {
	start := time.Now()

	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	outDir := scrambleOut
	if outDir == "" {
		outDir = "./scrambled_out"
	}
	absOutput, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	logVerbose("input:      %s", absInput)
	logVerbose("output:     %s", absOutput)
	logVerbose("block size: %d, seed: %d", scrambleBlockSize, scrambleSeed)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		BlockSize: scrambleBlockSize,
		Seed:      scrambleSeed,
		Workers:   scrambleWorkers,
		Verbose:   verbose,
	})

	rep, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	reportPath := filepath.Join(absOutput, report.Filename)
	if err := report.WriteJSON(rep, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printRunReport(rep, time.Since(start))
	return nil
}

func scrambleFile(inputPath string, inputSize int64) error {
	start := time.Now()

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inputPath, err)
	}
	img, formatName, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", inputPath, err)
	}

	var rng *rand.Rand
	if scrambleSeed != 0 {
		rng = rand.New(rand.NewSource(scrambleSeed))
	}

	res, err := scramble.Encode(img, stego.ParseFormat(formatName), scramble.Options{
		BlockSize: scrambleBlockSize,
		Rand:      rng,
	})
	if err != nil {
		return err
	}

	data, err := encoder.EncodePNG(res.Image)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	outPath := scrambleOut
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".scrambled.png"
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	printFileReport(inputPath, inputSize, formatName, res, outPath, data, time.Since(start))
	return nil
}

func printFileReport(inputPath string, inputSize int64, formatName string, res *scramble.Result, outPath string, outData []byte, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║             scrambling complete                  ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	rec := res.Record
	cols, rows := blocks.GridDims(rec.Width, rec.Height, rec.BlockSize)
	capacity := stego.Capacity(res.Image)
	pct := float64(0)
	if capacity > 0 {
		pct = float64(res.PayloadSize) / float64(capacity) * 100
	}

	fmt.Printf("  Input:     %s (%s, %dx%d %s)\n",
		filepath.Base(inputPath), formatBytes(inputSize), rec.Width, rec.Height, formatName)
	fmt.Printf("  Output:    %s (%s)\n", outPath, formatBytes(int64(len(outData))))
	fmt.Printf("  Blocks:    %d (%dx%d grid, %dpx)\n", res.Blocks, cols, rows, rec.BlockSize)
	fmt.Printf("  Displaced: %d\n", res.Displaced)
	if res.Clipped > 0 {
		fmt.Printf("  Clipped:   %d (pinned at the edges)\n", res.Clipped)
	}
	fmt.Printf("  Key:       %s embedded (%.1f%% of capacity)\n",
		formatBytes(int64(res.PayloadSize)), pct)
	fmt.Printf("  Hash:      %s\n", hasher.ContentHash(outData, 16))
	fmt.Printf("  Time:      %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()
}

func printRunReport(rep *report.Report, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║           scrambling run complete                ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := rep.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Printf("  Images:      %d\n", stats.TotalImages)
	fmt.Printf("  Blocks:      %d (%d displaced)\n", stats.TotalBlocks, stats.TotalDisplaced)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))

	if rep.RunInfo != nil {
		if rep.RunInfo.Seed != 0 {
			fmt.Printf("  Workers:     %d  (seed %d)\n", rep.RunInfo.Workers, rep.RunInfo.Seed)
		} else {
			fmt.Printf("  Workers:     %d\n", rep.RunInfo.Workers)
		}
	}
	fmt.Println()

	// Top 10 largest images.
	if len(rep.Images) > 0 {
		type imageSize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		var items []imageSize
		for key, e := range rep.Images {
			items = append(items, imageSize{key, e.Source.Size, e.Output.Size})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Top %d largest (original → scrambled):\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %8s → %8s\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
			)
		}
		fmt.Println()
	}

	data, _ := json.Marshal(rep)
	fmt.Printf("  Report:      %s (%s)\n", report.Filename, formatBytes(int64(len(data))))
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
