package negative

import (
	"bytes"
	"testing"

	"gocv.io/x/gocv"
)

// solid returns a rows x cols 3 channel Mat filled with the given samples,
// in whatever channel order the caller means.
func solid(rows, cols int, c0, c1, c2 float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(c0, c1, c2, 0), rows, cols, gocv.MatTypeCV8UC3)
}

// fromPixels builds a 3 channel Mat by calling px for every pixel.
func fromPixels(t *testing.T, rows, cols int, px func(r, c int) [3]uint8) gocv.Mat {
	t.Helper()
	data := make([]byte, 0, rows*cols*3)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := px(r, c)
			data = append(data, v[0], v[1], v[2])
		}
	}
	m, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC3, data)
	if err != nil {
		t.Fatalf("NewMatFromBytes: %v", err)
	}
	defer m.Close()
	return m.Clone()
}

func pixel(m gocv.Mat, r, c int) [3]uint8 {
	v := m.GetVecbAt(r, c)
	return [3]uint8{v[0], v[1], v[2]}
}

func sameMat(a, b gocv.Mat) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() || a.Type() != b.Type() {
		return false
	}
	return bytes.Equal(a.ToBytes(), b.ToBytes())
}

// maxDiff returns the largest absolute per sample difference of a and b.
func maxDiff(a, b gocv.Mat) int {
	ab, bb := a.ToBytes(), b.ToBytes()
	worst := 0
	for i := range ab {
		d := int(ab[i]) - int(bb[i])
		if d < 0 {
			d = -d
		}
		if d > worst {
			worst = d
		}
	}
	return worst
}

func solidScalar(v float64) gocv.Scalar {
	return gocv.NewScalar(v, v, v, 0)
}
