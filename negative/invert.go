package negative

import "gocv.io/x/gocv"

// Invert returns the bitwise complement of src, turning a film negative
// into a positive.
func Invert(src gocv.Mat) (gocv.Mat, error) {
	if src.Empty() {
		return gocv.NewMat(), ErrChannels
	}
	dst := gocv.NewMat()
	gocv.BitwiseNot(src, &dst)
	return dst, nil
}
