package imgio

import (
	"errors"
	"image"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"

	"gocv.io/x/gocv"
	"golang.org/x/image/tiff"

	"film-decolorizer/negative"
)

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
		ext  string
	}{
		{"tif", TIFF, ".tif"},
		{"TIFF", TIFF, ".tif"},
		{".png", PNG, ".png"},
		{"jpg", JPEG, ".jpg"},
		{"jpeg", JPEG, ".jpg"},
	}
	for _, c := range cases {
		got, err := ParseFormat(c.in)
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", c.in, err)
			continue
		}
		if got != c.want || got.Ext() != c.ext {
			t.Errorf("ParseFormat(%q) = %v (%s), want %v (%s)", c.in, got, got.Ext(), c.want, c.ext)
		}
	}

	if _, err := ParseFormat("gif"); err == nil {
		t.Error("ParseFormat(gif) succeeded")
	}
}

func TestWriteParams(t *testing.T) {
	cases := []struct {
		f       Format
		quality int
		want    []int
	}{
		{TIFF, 100, nil},
		{PNG, 100, []int{int(gocv.IMWritePngCompression), 9}},
		{PNG, 0, []int{int(gocv.IMWritePngCompression), 0}},
		{PNG, 50, []int{int(gocv.IMWritePngCompression), 4}},
		{JPEG, 85, []int{int(gocv.IMWriteJpegQuality), 85}},
		{JPEG, 140, []int{int(gocv.IMWriteJpegQuality), 100}},
	}
	for _, c := range cases {
		if got := c.f.writeParams(c.quality); !reflect.DeepEqual(got, c.want) {
			t.Errorf("%v.writeParams(%d) = %v, want %v", c.f, c.quality, got, c.want)
		}
	}
}

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 10), uint8(y * 10), 200, 255})
		}
	}
	return img
}

func TestImageToRGB(t *testing.T) {
	for name, img := range map[string]image.Image{
		"rgba":  gradient(12, 8),
		"nrgba": func() image.Image { n := image.NewNRGBA(image.Rect(0, 0, 12, 8)); copyInto(n, gradient(12, 8)); return n }(),
	} {
		t.Run(name, func(t *testing.T) {
			m, err := ImageToRGB(img)
			if err != nil {
				t.Fatalf("ImageToRGB: %v", err)
			}
			defer m.Close()

			if m.Rows() != 8 || m.Cols() != 12 || m.Channels() != 3 {
				t.Fatalf("got %dx%dx%d, want 8x12x3", m.Rows(), m.Cols(), m.Channels())
			}
			v := m.GetVecbAt(3, 5)
			if v[0] != 50 || v[1] != 30 || v[2] != 200 {
				t.Errorf("pixel (5,3) = %v, want [50 30 200]", v)
			}
		})
	}
}

func copyInto(dst *image.NRGBA, src image.Image) {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rgb, err := ImageToRGB(gradient(20, 10))
	if err != nil {
		t.Fatal(err)
	}
	defer rgb.Close()

	dir := t.TempDir()
	for _, f := range []Format{TIFF, PNG} {
		t.Run(f.String(), func(t *testing.T) {
			path, err := Encoder{Format: f, Quality: 100}.Encode(rgb, filepath.Join(dir, "out"))
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if want := filepath.Join(dir, "out"+f.Ext()); path != want {
				t.Errorf("wrote %s, want %s", path, want)
			}

			back, err := ImageDecoder{}.Decode(path)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			defer back.Close()
			if v := back.GetVecbAt(4, 7); v[0] != 70 || v[1] != 40 || v[2] != 200 {
				t.Errorf("pixel (7,4) = %v after round trip, want [70 40 200]", v)
			}
		})
	}

	t.Run("jpg", func(t *testing.T) {
		path, err := Encoder{Format: JPEG, Quality: 90}.Encode(rgb, filepath.Join(dir, "lossy"))
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Error(err)
		}
	})
}

func TestEncodeFailure(t *testing.T) {
	rgb, err := ImageToRGB(gradient(4, 4))
	if err != nil {
		t.Fatal(err)
	}
	defer rgb.Close()

	base := filepath.Join(t.TempDir(), "no", "such", "dir", "out")
	if _, err := (Encoder{Format: PNG, Quality: 50}).Encode(rgb, base); !errors.Is(err, ErrEncode) {
		t.Errorf("got %v, want ErrEncode", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.ARW")

	cases := []struct {
		name    string
		decoder negative.Decoder
		path    string
		want    error
	}{
		{"image missing", ImageDecoder{}, missing, negative.ErrInputNotFound},
		{"image junk", ImageDecoder{}, junk, negative.ErrDecode},
		{"dcraw missing", DcrawDecoder{}, missing, negative.ErrInputNotFound},
		{"dcraw no binary", DcrawDecoder{Command: filepath.Join(dir, "no-such-dcraw")}, junk, negative.ErrDecode},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := c.decoder.Decode(c.path)
			defer m.Close()
			if !errors.Is(err, c.want) {
				t.Errorf("got %v, want %v", err, c.want)
			}
		})
	}
}

// TestDcrawDecoderReadsTIFF stands in cat for the RAW converter so the
// TIFF handling can be tested without dcraw installed.
func TestDcrawDecoderReadsTIFF(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}

	path := filepath.Join(t.TempDir(), "frame.ARW")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := tiff.Encode(f, gradient(9, 6), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	m, err := DcrawDecoder{Command: cat, Args: []string{}}.Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer m.Close()

	if m.Rows() != 6 || m.Cols() != 9 {
		t.Fatalf("got %dx%d, want 6x9", m.Rows(), m.Cols())
	}
	if v := m.GetVecbAt(2, 3); v[0] != 30 || v[1] != 20 || v[2] != 200 {
		t.Errorf("pixel (3,2) = %v, want [30 20 200]", v)
	}
}

func TestReadCaptureInfoWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.ARW")
	if err := os.WriteFile(path, []byte("no metadata here"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadCaptureInfo(path); err == nil {
		t.Error("expected an error for a file without EXIF")
	}
}
