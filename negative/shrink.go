package negative

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Shrink scales r by ratio about its centre, cutting away sprocket holes
// and the film edge left inside the detected border. The result is always
// contained in r. Ratios outside (0,1] are rejected.
func Shrink(r image.Rectangle, ratio float64) (image.Rectangle, error) {
	if !(ratio > 0 && ratio <= 1) {
		return r, fmt.Errorf("%w: got %v", ErrShrinkRatio, ratio)
	}

	w, h := r.Dx(), r.Dy()
	newW := int(float64(w) * ratio)
	newH := int(float64(h) * ratio)
	x := r.Min.X + abs(w-newW)/2
	y := r.Min.Y + abs(h-newH)/2

	return image.Rect(x, y, x+newW, y+newH), nil
}

// Crop copies the region r out of src. The returned Mat owns its pixels.
func Crop(src gocv.Mat, r image.Rectangle) (gocv.Mat, error) {
	frame := image.Rect(0, 0, src.Cols(), src.Rows())
	if r.Empty() || !r.In(frame) {
		return gocv.NewMat(), fmt.Errorf("%w: %v in frame %v", ErrEmptyRegion, r, frame)
	}

	region := src.Region(r)
	defer region.Close()
	return region.Clone(), nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
