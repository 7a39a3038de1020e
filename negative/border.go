package negative

import (
	"image"

	"gocv.io/x/gocv"
)

// 8-bit HSV bounds of the scanner background (H in [0,180]). Value is the
// only discriminating threshold: anything darker than BlackValueMax counts
// as background.
const BlackValueMax = 50

var (
	blackLower = gocv.NewScalar(0, 0, 0, 0)
	blackUpper = gocv.NewScalar(180, 255, BlackValueMax, 0)
)

// DetectBorder finds the bounding rectangle of the largest region of a BGR
// frame that is brighter than the black scanner background.
//
// When several contours share the largest area the one whose bounding
// rectangle starts highest, then leftmost, is chosen. ErrNoForeground is
// returned for frames that are entirely background.
func DetectBorder(bgr gocv.Mat) (image.Rectangle, error) {
	hsv, err := convert(bgr, gocv.ColorBGRToHSV)
	if err != nil {
		return image.Rectangle{}, err
	}
	defer hsv.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, blackLower, blackUpper, &mask)
	gocv.BitwiseNot(mask, &mask)

	return largestContourRect(mask)
}

func largestContourRect(mask gocv.Mat) (image.Rectangle, error) {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return image.Rectangle{}, ErrNoForeground
	}

	var best image.Rectangle
	bestArea := -1.0
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		rect := gocv.BoundingRect(contour)

		if area > bestArea || (area == bestArea && scansBefore(rect, best)) {
			bestArea = area
			best = rect
		}
	}

	return best, nil
}

// scansBefore orders rectangles top to bottom, then left to right.
func scansBefore(a, b image.Rectangle) bool {
	if a.Min.Y != b.Min.Y {
		return a.Min.Y < b.Min.Y
	}
	return a.Min.X < b.Min.X
}
