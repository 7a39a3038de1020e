package imgio

import (
	"fmt"
	"strings"

	"gocv.io/x/gocv"
)

// Format is an output container.
type Format int

const (
	// TIFF is lossless and ignores quality.
	TIFF Format = iota
	// PNG maps quality 0-100 onto zlib compression levels 0-9.
	PNG
	// JPEG uses quality 0-100 directly.
	JPEG
)

func (f Format) String() string {
	switch f {
	case TIFF:
		return "tif"
	case PNG:
		return "png"
	case JPEG:
		return "jpg"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the canonical file extension, including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat accepts tif, tiff, png, jpg and jpeg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "tif", "tiff":
		return TIFF, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return TIFF, fmt.Errorf("unknown output format %q, want tif, png or jpg", s)
}

// writeParams returns the OpenCV imwrite parameters for quality.
func (f Format) writeParams(quality int) []int {
	quality = max(0, min(100, quality))
	switch f {
	case PNG:
		return []int{int(gocv.IMWritePngCompression), quality * 9 / 100}
	case JPEG:
		return []int{int(gocv.IMWriteJpegQuality), quality}
	default:
		return nil
	}
}
