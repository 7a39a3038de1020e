package batch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Discover walks root recursively and returns every regular file whose name
// ends with suffix, compared case-insensitively, in lexical order. Only an
// unreadable root is an error; unreadable entries below it are logged and
// skipped.
func Discover(root, suffix string, log *slog.Logger) ([]string, error) {
	if log == nil {
		log = slog.Default()
	}
	suffix = strings.ToLower(suffix)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warn("skipping unreadable path", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.HasSuffix(strings.ToLower(d.Name()), suffix) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// ExportDir is the directory results for src are written to: outputDir
// when set, otherwise <dir of src>/<YYYY-MM-DD>_export.
func ExportDir(src, outputDir string, day time.Time) string {
	if outputDir != "" {
		return outputDir
	}
	return filepath.Join(filepath.Dir(src), day.Format("2006-01-02")+"_export")
}

// OutputBase returns the output path for src without an extension. The base
// name is the file name up to its first dot.
func OutputBase(src, dir string) string {
	name, _, _ := strings.Cut(filepath.Base(src), ".")
	return filepath.Join(dir, name)
}

// PlanOutputs returns the output base of every file in order. When two
// sources map to the same base, compared case-insensitively, the later one
// gets a _2, _3, ... suffix so no result overwrites another.
func PlanOutputs(files []string, outputDir string, day time.Time) []string {
	var names NameSet
	bases := make([]string, len(files))
	for i, src := range files {
		bases[i] = names.Claim(OutputBase(src, ExportDir(src, outputDir, day)))
	}
	return bases
}

// NameSet hands out output names that are unique within one run. The zero
// value is ready to use and safe for concurrent use.
type NameSet struct {
	mu    sync.Mutex
	taken map[string]bool
}

// Claim returns name, or the first name_N not handed out before.
func (s *NameSet) Claim(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taken == nil {
		s.taken = map[string]bool{}
	}
	got := name
	for n := 2; s.taken[strings.ToLower(got)]; n++ {
		got = fmt.Sprintf("%s_%d", name, n)
	}
	s.taken[strings.ToLower(got)] = true
	return got
}

// ensureDir creates dir if it is absent. Safe to call from several workers.
func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
