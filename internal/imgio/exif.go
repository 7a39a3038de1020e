package imgio

import (
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// CaptureInfo is the camera metadata logged alongside each conversion.
type CaptureInfo struct {
	Make  string
	Model string
	Taken time.Time
}

// ReadCaptureInfo reads EXIF metadata from TIFF based RAW files (ARW, NEF,
// DNG, ...). Missing individual tags are left empty.
func ReadCaptureInfo(path string) (CaptureInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return CaptureInfo{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return CaptureInfo{}, err
	}

	var info CaptureInfo
	info.Make = stringTag(x, exif.Make)
	info.Model = stringTag(x, exif.Model)
	if t, err := x.DateTime(); err == nil {
		info.Taken = t
	}
	return info, nil
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimRight(s, "\x00 ")
}
