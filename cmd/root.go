package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scrambling",
	Short: "Self-keyed image block scrambler",
	Long: `scrambling — cuts an image into square blocks, shuffles them, and hides
the shuffle key inside the result's own pixels, so the scrambled file is
all a decoder ever needs.

Works on PNG only: the key rides in the least-significant bits and would
not survive a lossy or palette re-encode.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"scrambling %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[scrambling] "+format+"\n", args...)
	}
}
