package imgio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
	"golang.org/x/image/tiff"

	"film-decolorizer/negative"
)

// DefaultDcrawArgs ask dcraw for an 8-bit sRGB TIFF on stdout.
var DefaultDcrawArgs = []string{"-c", "-T", "-o", "1"}

// DcrawDecoder develops RAW files with an external dcraw compatible
// converter and reads back the TIFF it writes to stdout.
type DcrawDecoder struct {
	Command string
	Args    []string
}

func (d DcrawDecoder) Decode(path string) (gocv.Mat, error) {
	if err := exists(path); err != nil {
		return gocv.NewMat(), err
	}

	command := d.Command
	if command == "" {
		command = "dcraw"
	}
	args := d.Args
	if args == nil {
		args = DefaultDcrawArgs
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(command, append(append([]string{}, args...), path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %s %s: %v: %s",
			negative.ErrDecode, command, path, err, strings.TrimSpace(stderr.String()))
	}

	img, err := tiff.Decode(&stdout)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: reading %s output for %s: %v", negative.ErrDecode, command, path, err)
	}
	return ImageToRGB(img)
}

// ImageDecoder reads already developed scans with OpenCV.
type ImageDecoder struct{}

func (ImageDecoder) Decode(path string) (gocv.Mat, error) {
	if err := exists(path); err != nil {
		return gocv.NewMat(), err
	}

	bgr := gocv.IMRead(path, gocv.IMReadColor)
	defer bgr.Close()
	if bgr.Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: could not read %s", negative.ErrDecode, path)
	}
	return negative.BGRToRGB(bgr)
}

// IsImageFile reports whether OpenCV can read path directly.
func IsImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp", ".webp":
		return true
	}
	return false
}

// ImageToRGB copies img into an 8-bit RGB Mat.
func ImageToRGB(img image.Image) (gocv.Mat, error) {
	b := img.Bounds()
	if b.Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: empty image", negative.ErrDecode)
	}

	data := make([]byte, 0, b.Dx()*b.Dy()*3)
	switch src := img.(type) {
	case *image.RGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)]
			for i := 0; i < len(row); i += 4 {
				data = append(data, row[i], row[i+1], row[i+2])
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := img.At(x, y).RGBA()
				data = append(data, byte(r>>8), byte(g>>8), byte(bl>>8))
			}
		}
	}

	m, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC3, data)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", negative.ErrDecode, err)
	}
	defer m.Close()
	return m.Clone(), nil
}

func exists(path string) error {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", negative.ErrInputNotFound, path)
	}
	return err
}
