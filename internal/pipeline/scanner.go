package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered input image.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the image key (relpath without extension).
	Key string
	// Size is the file size in bytes.
	Size int64
}

// scrambledSuffix marks files this tool produced; they are never
// picked up as sources again.
const scrambledSuffix = ".scrambled.png"

// ScanImages walks the input directory and returns every .png source.
// PNG is the only container the scrambler accepts, so nothing else is
// a source; whether a file really is a PNG is the decoder's call.
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && info.Name() != "." {
				return filepath.SkipDir
			}
			return nil
		}

		name := strings.ToLower(info.Name())
		if !strings.HasSuffix(name, ".png") || strings.HasSuffix(name, scrambledSuffix) {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		// Key: relative path without extension, using forward slashes.
		key := strings.TrimSuffix(relPath, filepath.Ext(relPath))
		key = filepath.ToSlash(key)

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     key,
			Size:    info.Size(),
		})

		return nil
	})

	return sources, err
}
