package imgio

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"film-decolorizer/negative"
)

// ErrEncode is returned when an output file could not be written.
var ErrEncode = errors.New("encode failed")

// Encoder writes RGB Mats in a fixed format and quality.
type Encoder struct {
	Format  Format
	Quality int
}

// Encode writes rgb to base with the format's extension appended and
// returns the full path written.
func (e Encoder) Encode(rgb gocv.Mat, base string) (string, error) {
	bgr, err := negative.RGBToBGR(rgb)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	defer bgr.Close()

	path := base + e.Format.Ext()
	var ok bool
	if params := e.Format.writeParams(e.Quality); params != nil {
		ok = gocv.IMWriteWithParams(path, bgr, params)
	} else {
		ok = gocv.IMWrite(path, bgr)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrEncode, path)
	}
	return path, nil
}
