package stego

import "fmt"

// Format classifies the container an image was decoded from. The
// scrambler supports exactly one container: PNG. Every other declared
// format is rejected up front, before any block work, because a lossy
// or palette-quantized re-encode would corrupt the embedded bits.
type Format int

const (
	// FormatNone means the caller never declared a container, e.g. the
	// image was built in memory. Allowed.
	FormatNone Format = iota
	// FormatPNG is the one supported container.
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatWebP
	FormatBMP
	FormatTIFF
	// FormatUnknown is a declared container the gate does not recognize.
	FormatUnknown
)

var formatNames = map[Format]string{
	FormatNone:    "none",
	FormatPNG:     "png",
	FormatJPEG:    "jpeg",
	FormatGIF:     "gif",
	FormatWebP:    "webp",
	FormatBMP:     "bmp",
	FormatTIFF:    "tiff",
	FormatUnknown: "unknown",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat maps the format name reported by image.Decode. An empty
// name means the container was never declared.
func ParseFormat(name string) Format {
	switch name {
	case "":
		return FormatNone
	case "png":
		return FormatPNG
	case "jpeg":
		return FormatJPEG
	case "gif":
		return FormatGIF
	case "webp":
		return FormatWebP
	case "bmp":
		return FormatBMP
	case "tiff":
		return FormatTIFF
	default:
		return FormatUnknown
	}
}

// FormatError reports an input container the scrambler cannot carry a
// payload through.
type FormatError struct {
	Format Format
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("image format %q is not supported: png required", e.Format)
}

// Validate is the format gate: nil for PNG or an undeclared container,
// *FormatError for everything else.
func Validate(f Format) error {
	switch f {
	case FormatNone, FormatPNG:
		return nil
	default:
		return &FormatError{Format: f}
	}
}
