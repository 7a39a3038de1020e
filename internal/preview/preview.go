// Package preview holds optional observers that show finished images.
package preview

import (
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	"film-decolorizer/internal/batch"
	"film-decolorizer/negative"
)

// Multi fans an image out to several observers. Nil entries are skipped and
// a nil Observer is returned when nothing is left.
func Multi(observers ...negative.Observer) negative.Observer {
	var keep multi
	for _, o := range observers {
		if o != nil {
			keep = append(keep, o)
		}
	}
	switch len(keep) {
	case 0:
		return nil
	case 1:
		return keep[0]
	}
	return keep
}

type multi []negative.Observer

func (m multi) Observe(src string, rgb gocv.Mat) {
	for _, o := range m {
		o.Observe(src, rgb)
	}
}

// Window shows every result in an OpenCV window, scaled down to 75%.
type Window struct {
	mu     sync.Mutex
	win    *gocv.Window
	title  string
	waitMS int
	log    *slog.Logger
}

// NewWindow opens a window. waitMS is passed to WaitKey after each image;
// 0 waits for a key press.
func NewWindow(title string, waitMS int, log *slog.Logger) *Window {
	return &Window{win: gocv.NewWindow(title), title: title, waitMS: waitMS, log: log}
}

func (w *Window) Observe(src string, rgb gocv.Mat) {
	bgr, err := negative.RGBToBGR(rgb)
	if err != nil {
		orDefault(w.log).Warn("preview failed", "file", src, "err", err)
		return
	}
	defer bgr.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(bgr, &resized, image.Point{}, 0.75, 0.75, gocv.InterpolationLinear)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.win.SetWindowTitle(w.title + " - " + filepath.Base(src))
	w.win.IMShow(resized)
	w.win.WaitKey(w.waitMS)
}

func (w *Window) Close() error {
	return w.win.Close()
}

// Thumbnails writes a small JPEG of every result to Dir. Sources that share
// a base name get numbered thumbnails instead of overwriting each other.
type Thumbnails struct {
	Dir    string
	Size   int
	Logger *slog.Logger

	names batch.NameSet
}

func (t *Thumbnails) Observe(src string, rgb gocv.Mat) {
	log := orDefault(t.Logger)
	path, err := t.write(src, rgb)
	if err != nil {
		log.Warn("thumbnail failed", "file", src, "err", err)
		return
	}
	log.Debug("thumbnail written", "file", src, "thumbnail", path)
}

func (t *Thumbnails) write(src string, rgb gocv.Mat) (string, error) {
	bgr, err := negative.RGBToBGR(rgb)
	if err != nil {
		return "", err
	}
	defer bgr.Close()

	img, err := bgr.ToImage()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return "", err
	}
	name, _, _ := strings.Cut(filepath.Base(src), ".")
	path := t.names.Claim(filepath.Join(t.Dir, name+"_preview")) + ".jpg"

	size := t.Size
	if size <= 0 {
		size = 512
	}
	thumb := imaging.Fit(img, size, size, imaging.Lanczos)
	return path, imaging.Save(thumb, path, imaging.JPEGQuality(85))
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log != nil {
		return log
	}
	return slog.Default()
}
