package negative

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"

	"gocv.io/x/gocv"
)

// DefaultShrinkRatio keeps 80% of the detected frame, enough to drop
// sprocket holes on 35mm scans.
const DefaultShrinkRatio = 0.8

// A Decoder turns a source file into an 8-bit RGB Mat.
type Decoder interface {
	Decode(path string) (gocv.Mat, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(path string) (gocv.Mat, error)

func (f DecoderFunc) Decode(path string) (gocv.Mat, error) {
	return f(path)
}

// An Observer is shown every finished image. It must not retain or Close
// the Mat.
type Observer interface {
	Observe(src string, rgb gocv.Mat)
}

// Processor turns one RAW negative into a colour corrected positive.
type Processor struct {
	Decoder     Decoder
	ShrinkRatio float64
	Observer    Observer
	Logger      *slog.Logger
}

// Process runs decode, border detection, margin shrink, crop, inversion,
// colour balance and white balance on path. The returned RGB Mat belongs to
// the caller. Failures are reported as *ProcessingError.
func (p *Processor) Process(path string) (gocv.Mat, error) {
	log := p.logger().With("file", path)

	bgr, err := p.decodeBGR(path)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer bgr.Close()

	_, rect, err := p.locate(path, bgr, log)
	if err != nil {
		return gocv.NewMat(), err
	}

	cropped, err := Crop(bgr, rect)
	if err != nil {
		return gocv.NewMat(), &ProcessingError{Path: path, Stage: StageCrop, Err: err}
	}
	defer cropped.Close()

	positive, err := Invert(cropped)
	if err != nil {
		return gocv.NewMat(), &ProcessingError{Path: path, Stage: StageInvert, Err: err}
	}
	defer positive.Close()

	if ranges, err := ChannelRanges(positive); err == nil {
		log.Debug("channel ranges", "ranges", ranges)
	}
	balanced, err := AutoColorBalance(positive)
	if err != nil {
		return gocv.NewMat(), &ProcessingError{Path: path, Stage: StageColorBalance, Err: err}
	}
	defer balanced.Close()

	rgb, err := BGRToRGB(balanced)
	if err != nil {
		return gocv.NewMat(), &ProcessingError{Path: path, Stage: StageConvert, Err: err}
	}
	defer rgb.Close()

	out, err := WhiteBalance(rgb)
	if err != nil {
		return gocv.NewMat(), &ProcessingError{Path: path, Stage: StageWhiteBalance, Err: err}
	}
	if means, err := ChannelMeans(out); err == nil {
		log.Debug("white balanced", "means", means)
	}

	if p.Observer != nil {
		p.Observer.Observe(path, out)
	}
	return out, nil
}

// Locate decodes path and returns the detected film border together with
// the shrunk rectangle that Process would crop to.
func (p *Processor) Locate(path string) (border, crop image.Rectangle, err error) {
	bgr, err := p.decodeBGR(path)
	if err != nil {
		return image.Rectangle{}, image.Rectangle{}, err
	}
	defer bgr.Close()

	return p.locate(path, bgr, p.logger().With("file", path))
}

func (p *Processor) locate(path string, bgr gocv.Mat, log *slog.Logger) (image.Rectangle, image.Rectangle, error) {
	border, err := DetectBorder(bgr)
	if err != nil {
		return image.Rectangle{}, image.Rectangle{}, &ProcessingError{Path: path, Stage: StageDetect, Err: err}
	}

	crop, err := Shrink(border, p.ShrinkRatio)
	if err != nil {
		return border, image.Rectangle{}, &ProcessingError{Path: path, Stage: StageShrink, Err: err}
	}
	log.Debug("border detected", "border", border, "crop", crop, "ratio", p.ShrinkRatio)
	return border, crop, nil
}

// decodeBGR checks the source exists, decodes it and converts the result to
// the BGR order the OpenCV stages work in.
func (p *Processor) decodeBGR(path string) (gocv.Mat, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %v", ErrInputNotFound, err)
		}
		return gocv.NewMat(), &ProcessingError{Path: path, Stage: StageDecode, Err: err}
	}

	rgb, err := p.Decoder.Decode(path)
	if err != nil {
		if !errors.Is(err, ErrDecode) && !errors.Is(err, ErrInputNotFound) {
			err = fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return gocv.NewMat(), &ProcessingError{Path: path, Stage: StageDecode, Err: err}
	}
	defer rgb.Close()

	p.logger().Debug("decoded", "file", path, "rows", rgb.Rows(), "cols", rgb.Cols(), "channels", rgb.Channels())

	bgr, err := RGBToBGR(rgb)
	if err != nil {
		return gocv.NewMat(), &ProcessingError{Path: path, Stage: StageConvert, Err: err}
	}
	return bgr, nil
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
