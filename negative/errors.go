package negative

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound is returned when the source file does not exist.
	ErrInputNotFound = errors.New("input not found")
	// ErrDecode is returned when a source cannot be decoded into pixels.
	ErrDecode = errors.New("decode failed")
	// ErrNoForeground is returned when border detection finds nothing but background.
	ErrNoForeground = errors.New("no foreground region found")
	// ErrChannels is returned for empty buffers or buffers with the wrong channel count.
	ErrChannels = errors.New("unexpected channel layout")
	// ErrShrinkRatio is returned for shrink ratios outside (0,1].
	ErrShrinkRatio = errors.New("shrink ratio must be in (0,1]")
	// ErrEmptyRegion is returned when a crop rectangle is empty or leaves the frame.
	ErrEmptyRegion = errors.New("empty or out of frame region")
)

// Stage names reported by ProcessingError.
const (
	StageDecode       = "decode"
	StageConvert      = "convert"
	StageDetect       = "detect"
	StageShrink       = "shrink"
	StageCrop         = "crop"
	StageInvert       = "invert"
	StageColorBalance = "color-balance"
	StageWhiteBalance = "white-balance"
)

// ProcessingError records which stage of the pipeline failed for a file.
type ProcessingError struct {
	Path  string
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
