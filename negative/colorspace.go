package negative

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Colour conversions between the layouts used by the pipeline. Every
// function returns a new Mat which the caller must Close.
//
// HSV buffers are 32-bit float with H in [0,360) and S, V in [0,1]. The
// 8-bit OpenCV layout stores hue in 2 degree steps, which loses up to four
// levels per channel on saturated colours.

// RGBToBGR swaps the red and blue channels.
func RGBToBGR(src gocv.Mat) (gocv.Mat, error) {
	return convert(src, gocv.ColorRGBToBGR)
}

// BGRToRGB swaps the blue and red channels.
func BGRToRGB(src gocv.Mat) (gocv.Mat, error) {
	return convert(src, gocv.ColorBGRToRGB)
}

// RGBToHSV converts an 8-bit RGB Mat to a float HSV Mat.
func RGBToHSV(src gocv.Mat) (gocv.Mat, error) {
	return toHSV(src, gocv.ColorRGBToHSV)
}

// HSVToRGB converts a float HSV Mat back to 8-bit RGB.
func HSVToRGB(src gocv.Mat) (gocv.Mat, error) {
	return fromHSV(src, gocv.ColorHSVToRGB)
}

// BGRToHSV converts an 8-bit BGR Mat to a float HSV Mat.
func BGRToHSV(src gocv.Mat) (gocv.Mat, error) {
	return toHSV(src, gocv.ColorBGRToHSV)
}

// HSVToBGR converts a float HSV Mat back to 8-bit BGR.
func HSVToBGR(src gocv.Mat) (gocv.Mat, error) {
	return fromHSV(src, gocv.ColorHSVToBGR)
}

// BGRToGray returns a single channel luminance Mat.
func BGRToGray(src gocv.Mat) (gocv.Mat, error) {
	return convert(src, gocv.ColorBGRToGray)
}

func convert(src gocv.Mat, code gocv.ColorConversionCode) (gocv.Mat, error) {
	if err := checkColor(src); err != nil {
		return gocv.NewMat(), err
	}
	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, code)
	return dst, nil
}

func toHSV(src gocv.Mat, code gocv.ColorConversionCode) (gocv.Mat, error) {
	if err := checkColor(src); err != nil {
		return gocv.NewMat(), err
	}
	unit := gocv.NewMat()
	defer unit.Close()
	src.ConvertToWithParams(&unit, gocv.MatTypeCV32F, 1.0/255, 0)

	dst := gocv.NewMat()
	gocv.CvtColor(unit, &dst, code)
	return dst, nil
}

func fromHSV(src gocv.Mat, code gocv.ColorConversionCode) (gocv.Mat, error) {
	if src.Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: empty buffer", ErrChannels)
	}
	if src.Type() != gocv.MatTypeCV32FC3 {
		return gocv.NewMat(), fmt.Errorf("%w: want float 3 channel HSV, got %d channels of type %v", ErrChannels, src.Channels(), src.Type())
	}
	unit := gocv.NewMat()
	defer unit.Close()
	gocv.CvtColor(src, &unit, code)

	dst := gocv.NewMat()
	unit.ConvertToWithParams(&dst, gocv.MatTypeCV8U, 255, 0)
	return dst, nil
}

// checkColor rejects anything that is not a non-empty 8-bit 3 channel Mat.
func checkColor(src gocv.Mat) error {
	if src.Empty() {
		return fmt.Errorf("%w: empty buffer", ErrChannels)
	}
	if src.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("%w: want 8-bit 3 channel, got %d channels of type %v", ErrChannels, src.Channels(), src.Type())
	}
	return nil
}
